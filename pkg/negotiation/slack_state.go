package negotiation

import (
	"fmt"

	"github.com/lintang-b-s/Negotiatorx/pkg/util"
)

// SlackState is the remediation strategy applied to a segment that could not
// be placed. States are ordered from mildest to most aggressive.
type SlackState uint8

const (
	RipupPerpandiculars SlackState = iota + 1
	Minimize
	DogLeg
	Desalignate
	Slacken
	ConflictSolve1
	ConflictSolve2
	LocalVsGlobal
	MoveUp
	MaximumSlack
	Unimplemented
)

var slackStateNames = [...]string{
	RipupPerpandiculars: "RipupPerpandiculars",
	Minimize:            "Minimize",
	DogLeg:              "DogLeg",
	Desalignate:         "Desalignate",
	Slacken:             "Slacken",
	ConflictSolve1:      "ConflictSolve1",
	ConflictSolve2:      "ConflictSolve2",
	LocalVsGlobal:       "LocalVsGlobal",
	MoveUp:              "MoveUp",
	MaximumSlack:        "MaximumSlack",
	Unimplemented:       "Unimplemented",
}

func (s SlackState) String() string {
	if s < RipupPerpandiculars || s > Unimplemented {
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
	return slackStateNames[s]
}

// IsStrategy reports whether s is a real strategy, Unimplemented excluded.
func (s SlackState) IsStrategy() bool {
	return s >= RipupPerpandiculars && s <= MaximumSlack
}

// Next is the following rung of the ladder. MaximumSlack escalates to
// Unimplemented, which never escalates further.
func (s SlackState) Next() SlackState {
	if s >= Unimplemented {
		return Unimplemented
	}
	return s + 1
}

func SlackStates() []SlackState {
	states := make([]SlackState, 0, int(Unimplemented))
	for s := RipupPerpandiculars; s <= Unimplemented; s++ {
		states = append(states, s)
	}
	return states
}

func ParseSlackState(name string) (SlackState, error) {
	for s := RipupPerpandiculars; s <= Unimplemented; s++ {
		if slackStateNames[s] == name {
			return s, nil
		}
	}
	return 0, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown slack state %q", name)
}
