package router

import (
	"context"
	"fmt"
	"sync"

	"ianct-client/infrastructure/observability"
	apperrors "ianct-client/pkg/errors"

	"go.uber.org/zap"
)

// MaxRedirects bounds redirect chains.
const MaxRedirects = 10

// Navigator owns the current location of an app.
type Navigator struct {
	table   *Table
	guard   *Guard
	logger  *zap.Logger
	metrics *observability.Collector

	mu       sync.RWMutex
	current  Location
	resets   []func()
	onChange []func(Location)
}

func NewNavigator(table *Table, guard *Guard, logger *zap.Logger, metrics *observability.Collector) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		table:   table,
		guard:   guard,
		logger:  logger.Named("router"),
		metrics: metrics,
	}
}

// Current returns the location last navigated to.
func (n *Navigator) Current() Location {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// CurrentPath returns the path (without query) of the current location.
func (n *Navigator) CurrentPath() string {
	return n.Current().Path
}

// OnReset registers a state reset run by HardRedirect.
func (n *Navigator) OnReset(fn func()) {
	n.mu.Lock()
	n.resets = append(n.resets, fn)
	n.mu.Unlock()
}

// OnChange registers a callback run after each completed navigation.
func (n *Navigator) OnChange(fn func(Location)) {
	n.mu.Lock()
	n.onChange = append(n.onChange, fn)
	n.mu.Unlock()
}

// Navigate resolves path, follows static and guard redirects and makes the
// final location current. The lock is never held while the guard runs, so
// a 401 during the profile fetch can itself redirect.
func (n *Navigator) Navigate(ctx context.Context, path string) (Location, error) {
	target := path
	for hops := 0; ; hops++ {
		if hops > MaxRedirects {
			return Location{}, apperrors.NewInternalError(
				fmt.Sprintf("too many redirects navigating to %s", path))
		}

		loc, ok := n.table.Match(target)
		if !ok {
			return Location{}, apperrors.NewNotFoundError(fmt.Sprintf("route %s", target))
		}

		if loc.Route.Redirect != "" {
			n.metrics.ObserveRedirect("static")
			target = loc.Route.Redirect
			continue
		}

		decision, err := n.guard.Evaluate(ctx, loc)
		if err != nil {
			n.logger.Info("Navigation aborted",
				zap.String("to", loc.FullPath),
				zap.Error(err),
			)
			return Location{}, err
		}
		if !decision.Proceed {
			n.metrics.ObserveRedirect(decision.Reason)
			n.logger.Debug("Guard redirect",
				zap.String("from", loc.FullPath),
				zap.String("to", decision.Redirect),
				zap.String("reason", decision.Reason),
			)
			target = decision.Redirect
			continue
		}

		n.mu.Lock()
		n.current = loc
		callbacks := make([]func(Location), len(n.onChange))
		copy(callbacks, n.onChange)
		n.mu.Unlock()

		for _, cb := range callbacks {
			cb(loc)
		}
		return loc, nil
	}
}

// HardRedirect resets all registered state and then navigates, the way a
// full page load would.
func (n *Navigator) HardRedirect(ctx context.Context, path string) error {
	n.mu.RLock()
	resets := make([]func(), len(n.resets))
	copy(resets, n.resets)
	n.mu.RUnlock()

	for _, reset := range resets {
		reset()
	}
	_, err := n.Navigate(ctx, path)
	return err
}
