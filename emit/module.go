package emit

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/deepnoodle-ai/ilemit/bound"
	"github.com/deepnoodle-ai/ilemit/il"
)

// EmitModule emits every method with a body in the namespace, in parallel.
// Each method gets its own emitter; a failing method does not stop the
// others, and all failures are returned together.
func EmitModule(ctx context.Context, ns *bound.Namespace, opts ...Option) (*il.Module, error) {
	cfg := newConfig(opts)
	var methods []*bound.Method
	for _, m := range ns.Methods() {
		if m.Body != nil {
			methods = append(methods, m)
		}
	}

	bodies := make([]*il.Body, len(methods))
	failures := make([]error, len(methods))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, m := range methods {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bodies[i], failures[i] = emitMethod(cfg, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result *multierror.Error
	for _, err := range failures {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	cfg.logger.Debug().Str("namespace", ns.Name).Int("methods", len(bodies)).Msg("module emitted")
	return il.NewModule(ns.Name, bodies)
}
