package aggregate

import (
	"context"

	"github.com/chebyrash/promise"
	pkgerrors "github.com/pkg/errors"
)

// Aggregate runs a set of plugins as one. Init and Start run in the order
// given, Stop in reverse.
type Aggregate struct {
	ctx     context.Context
	cancel  context.CancelFunc
	plugins []Plugin
}

var _ Plugin = &Aggregate{}

func New(ctx context.Context, plugins ...Plugin) *Aggregate {
	ctx, cancel := context.WithCancel(ctx)
	return &Aggregate{
		ctx,
		cancel,
		plugins,
	}
}

// Run initializes and starts every plugin, runs fn and then stops them.
// Plugins are stopped even when fn fails.
func (a *Aggregate) Run(fn func(ctx context.Context) error) error {
	defer a.cancel()

	if err := a.Init(); err != nil {
		return err
	}

	if _, err := a.Start().Await(a.ctx); err != nil {
		return pkgerrors.Wrap(err, "failed to start")
	}

	runErr := fn(a.ctx)
	if err := a.Stop(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// Init implements Plugin.
func (a *Aggregate) Init() error {
	for _, p := range a.plugins {
		if err := p.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Start implements Plugin.
func (a *Aggregate) Start() *promise.Promise[any] {
	promises := make([]*promise.Promise[any], len(a.plugins))
	for i, p := range a.plugins {
		promises[i] = p.Start()
	}
	return promise.Then(
		promise.All(a.ctx, promises...),
		a.ctx,
		func([]any) (any, error) {
			return nil, nil
		},
	)
}

// Stop implements Plugin.
func (a *Aggregate) Stop() error {
	var first error
	for i := len(a.plugins) - 1; i >= 0; i-- {
		if err := a.plugins[i].Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
