package main

import (
	"os"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/ilemit/emit"
)

// settings layers defaults, an optional config file, ILEMIT_* environment
// variables and command line flags, in increasing precedence.
type settings struct {
	v *viper.Viper
}

// loadSettings reads the global flags and the named command flags.
func loadSettings(ctx *cli.Context, flags ...string) (*settings, error) {
	v := viper.New()
	v.SetEnvPrefix("ILEMIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("checked", false)
	v.SetDefault("unsafe", false)
	v.SetDefault("jobs", 4)
	v.SetDefault("no-color", false)
	v.SetDefault("log-level", "warn")
	v.SetDefault("short-branches", true)
	v.SetDefault("output", "text")

	if path := ctx.String("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	for _, key := range append([]string{"no-color", "log-level"}, flags...) {
		if !ctx.IsSet(key) {
			continue
		}
		switch key {
		case "checked", "unsafe", "no-color", "short-branches":
			v.Set(key, ctx.Bool(key))
		case "jobs":
			v.Set(key, ctx.Int(key))
		default:
			v.Set(key, ctx.String(key))
		}
	}
	return &settings{v: v}, nil
}

func (s *settings) noColor() bool {
	return s.v.GetBool("no-color")
}

func (s *settings) output() string {
	return strings.ToLower(s.v.GetString("output"))
}

func (s *settings) logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(s.v.GetString("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: s.noColor() || !isTerminal(os.Stderr)}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// emitOptions translates the settings into emission options.
func (s *settings) emitOptions(filename string) []emit.Option {
	return []emit.Option{
		emit.WithChecked(s.v.GetBool("checked")),
		emit.WithUnsafe(s.v.GetBool("unsafe")),
		emit.WithShortBranches(s.v.GetBool("short-branches")),
		emit.WithConcurrency(s.v.GetInt("jobs")),
		emit.WithFilename(filename),
		emit.WithLogger(s.logger()),
	}
}
