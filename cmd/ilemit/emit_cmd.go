package main

import (
	"errors"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
)

var errNoFile = errors.New("no document given")

func emitHandler(ctx *cli.Context) error {
	path := ctx.Arg(0)
	if path == "" {
		return errNoFile
	}
	s, err := loadSettings(ctx, "checked", "unsafe", "jobs", "output")
	if err != nil {
		return err
	}
	applyColor(s)
	_, mod, err := emitFile(ctx.Context(), path, s)
	if err != nil {
		return err
	}
	log := s.logger()
	log.Debug().
		Str("module", mod.Name()).
		Str("id", mod.ID().String()).
		Int("bodies", mod.BodyCount()).
		Msg("emitted")
	return writeModule(os.Stdout, mod, s.output(), stdoutColor(s))
}
