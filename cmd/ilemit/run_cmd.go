package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"

	"github.com/deepnoodle-ai/ilemit/vm"
)

func runHandler(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return errNoFile
	}
	path, params := args[0], args[1:]

	s, err := loadSettings(ctx, "checked", "unsafe")
	if err != nil {
		return err
	}
	applyColor(s)

	name := ctx.String("method")
	if name == "" {
		return errors.New("--method is required")
	}
	ns, mod, err := emitFile(ctx.Context(), path, s)
	if err != nil {
		return err
	}
	m, err := findMethod(ns, name)
	if err != nil {
		return err
	}
	if !m.Static {
		return fmt.Errorf("method %s is not static", m.FullName())
	}
	if len(params) != len(m.Params) {
		return fmt.Errorf("method %s takes %d argument(s), got %d", m.FullName(), len(m.Params), len(params))
	}
	values := make([]vm.Value, len(params))
	for i, p := range m.Params {
		if values[i], err = vm.Parse(p.ParamType, params[i]); err != nil {
			return fmt.Errorf("argument %s: %w", p.Name, err)
		}
	}

	result, err := vm.RunMethod(ctx.Context(), mod, m.FullName(), values)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, result.Format(m.ReturnType))
	return nil
}
