package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"

	"github.com/deepnoodle-ai/ilemit/dis"
	"github.com/deepnoodle-ai/ilemit/emit"
	"github.com/deepnoodle-ai/ilemit/loader"
)

func disHandler(ctx *cli.Context) error {
	path := ctx.Arg(0)
	if path == "" {
		return errNoFile
	}
	s, err := loadSettings(ctx, "checked", "unsafe")
	if err != nil {
		return err
	}
	applyColor(s)

	name := ctx.String("method")
	if name == "" {
		// Without a method, list the whole module
		_, mod, err := emitFile(ctx.Context(), path, s)
		if err != nil {
			return err
		}
		return writeModule(os.Stdout, mod, "text", stdoutColor(s))
	}

	ns, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	m, err := findMethod(ns, name)
	if err != nil {
		return err
	}
	if m.Body == nil {
		return fmt.Errorf("method %s has no body", m.FullName())
	}
	opts := s.emitOptions(path)
	if ctx.Bool("symbolic") {
		opts = append(opts, emit.WithoutFixup())
	}
	body, err := emit.EmitMethod(m, opts...)
	if err != nil {
		reportErrors(os.Stderr, err, !s.noColor() && isTerminal(os.Stderr))
		return errEmitFailed
	}
	return dis.NewPrinter(stdoutColor(s)).Listing(body, os.Stdout)
}
