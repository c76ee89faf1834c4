package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/emit"
	"github.com/deepnoodle-ai/ilemit/errz"
	"github.com/deepnoodle-ai/ilemit/il"
	"github.com/deepnoodle-ai/ilemit/loader"
)

var red = color.New(color.FgRed).SprintFunc()

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// applyColor adjusts the fatih/color default to the settings.
func applyColor(s *settings) {
	if s.noColor() || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

// stdoutColor reports whether listings written to stdout should be colored.
func stdoutColor(s *settings) bool {
	return !s.noColor() && isTerminal(os.Stdout)
}

// errEmitFailed is returned once the individual failures have been printed.
var errEmitFailed = errors.New("emission failed")

// reportErrors prints emission failures with source excerpts.
func reportErrors(w io.Writer, err error, useColor bool) {
	f := errz.NewFormatter(useColor)
	var merr *multierror.Error
	if errors.As(err, &merr) {
		fmt.Fprint(w, f.FormatAll(merr.Errors))
		fmt.Fprintln(w, red(fmt.Sprintf("%d method(s) failed", len(merr.Errors))))
		return
	}
	fmt.Fprint(w, f.Format(err))
}

// emitFile loads a document and emits every method in it.
func emitFile(ctx context.Context, path string, s *settings) (*bound.Namespace, *il.Module, error) {
	ns, err := loader.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	mod, err := emit.EmitModule(ctx, ns, s.emitOptions(path)...)
	if err != nil {
		reportErrors(os.Stderr, err, !s.noColor() && isTerminal(os.Stderr))
		return nil, nil, errEmitFailed
	}
	return ns, mod, nil
}

// findMethod looks up a method by its Type::Name, or by Name alone when
// it is unambiguous.
func findMethod(ns *bound.Namespace, name string) (*bound.Method, error) {
	var found []*bound.Method
	for _, m := range ns.Methods() {
		if m.FullName() == name || m.Owner.Name+"::"+m.Name == name {
			return m, nil
		}
		if !strings.Contains(name, "::") && m.Name == name {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("method not found: %s", name)
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("ambiguous method %s: %d candidates", name, len(found))
}
