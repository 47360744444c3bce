package dbu

import (
	"math"
	"strconv"
	"sync/atomic"

	"github.com/lintang-b-s/Negotiatorx/pkg"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
)

// Unit is an integer length in the design base unit.
type Unit int64

const (
	Max Unit = math.MaxInt64
	Min Unit = math.MinInt64
)

var unitsPerLambda atomic.Int64

func init() {
	unitsPerLambda.Store(pkg.DEFAULT_UNITS_PER_LAMBDA)
}

// SetUnitsPerLambda sets the symbolic grid resolution. Call it once, before any
// geometry is built.
func SetUnitsPerLambda(n int64) error {
	if n <= 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "dbu.SetUnitsPerLambda: units per lambda must be positive, got %d", n)
	}
	unitsPerLambda.Store(n)
	return nil
}

func GetUnitsPerLambda() int64 {
	return unitsPerLambda.Load()
}

// Lambda converts a symbolic length to base units, rounding half to even.
func Lambda(v float64) Unit {
	return Unit(math.RoundToEven(v * float64(unitsPerLambda.Load())))
}

func GetLambda(u Unit) float64 {
	return float64(u) / float64(unitsPerLambda.Load())
}

func ValueString(u Unit) string {
	switch u {
	case Max:
		return "MAX"
	case Min:
		return "MIN"
	}
	return strconv.FormatFloat(GetLambda(u), 'f', -1, 64) + "l"
}

func Abs(u Unit) Unit {
	if u < 0 {
		return -u
	}
	return u
}
