package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/Negotiatorx/pkg"
	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"github.com/spf13/viper"
)

// Config holds the negotiation knobs. Lengths are given in lambda.
type Config struct {
	UnitsPerLambda        int64         `mapstructure:"units_per_lambda" validate:"gt=0"`
	AttractorMarginLambda float64       `mapstructure:"attractor_margin_lambda" validate:"gte=0"`
	TrackPitchLambda      float64       `mapstructure:"track_pitch_lambda" validate:"gt=0"`
	MaxEvents             int           `mapstructure:"max_events" validate:"gt=0"`
	StateRepeatLimit      int           `mapstructure:"state_repeat_limit" validate:"gte=1,lte=31"`
	RipupLimit            int           `mapstructure:"ripup_limit" validate:"gte=1"`
	InitialState          string        `mapstructure:"initial_state" validate:"oneof=RipupPerpandiculars Minimize DogLeg Desalignate Slacken ConflictSolve1 ConflictSolve2 LocalVsGlobal MoveUp MaximumSlack"`
	Workers               int           `mapstructure:"workers" validate:"gte=1,lte=256"`
	LogLevel              string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	DiagnosticInterval    time.Duration `mapstructure:"diagnostic_interval" validate:"gte=0"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("units_per_lambda", pkg.DEFAULT_UNITS_PER_LAMBDA)
	v.SetDefault("attractor_margin_lambda", pkg.ATTRACTOR_MARGIN_LAMBDA)
	v.SetDefault("track_pitch_lambda", pkg.DEFAULT_TRACK_PITCH)
	v.SetDefault("max_events", pkg.DEFAULT_MAX_EVENTS)
	v.SetDefault("state_repeat_limit", pkg.DEFAULT_STATE_REPEAT)
	v.SetDefault("ripup_limit", pkg.DEFAULT_RIPUP_LIMIT)
	v.SetDefault("initial_state", pkg.DEFAULT_INITIAL_STATE)
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("diagnostic_interval", "1s")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v)
	util.AssertPanic(err == nil, "config: defaults do not validate")
	return cfg
}

// ReadConfig reads negotiator.yaml from ./data/ or the working directory. A
// missing file is not an error, defaults and NEGOTIATOR_* variables still apply.
func ReadConfig(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetConfigName("negotiator")
	v.AddConfigPath("./data/")
	v.AddConfigPath(".")
	v.SetEnvPrefix("NEGOTIATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, util.WrapErrorf(err, util.ErrBadParamInput, "config.ReadConfig: fatal error config file")
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, util.WrapErrorf(err, util.ErrBadParamInput, "config.decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return util.WrapErrorf(err, util.ErrBadParamInput, "config.Validate")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return util.WrapErrorf(nil, util.ErrBadParamInput, "validation error: %v", msgs)
}
