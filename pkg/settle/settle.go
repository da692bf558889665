// Package settle runs independent calls concurrently and waits for every one
// of them, keeping each call's outcome instead of stopping at the first
// failure.
package settle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is one call of a fan-out.
type Task func(ctx context.Context) error

// Outcomes holds the error of each task, by position. A nil entry means the
// task succeeded.
type Outcomes []error

// All runs tasks concurrently and returns once all of them have finished.
// A failing task never cancels its siblings.
func All(ctx context.Context, tasks ...Task) Outcomes {
	return Limit(ctx, -1, tasks...)
}

// Limit is All with at most n tasks in flight; n <= 0 means no bound.
func Limit(ctx context.Context, n int, tasks ...Task) Outcomes {
	if n <= 0 {
		n = -1
	}
	out := make(Outcomes, len(tasks))
	var g errgroup.Group
	g.SetLimit(n)
	for i, task := range tasks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					out[i] = fmt.Errorf("task %d panicked: %v", i, r)
				}
			}()
			out[i] = task(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Ok reports whether task i succeeded.
func (o Outcomes) Ok(i int) bool {
	return i < len(o) && o[i] == nil
}

// Failed returns the positions of the tasks that failed.
func (o Outcomes) Failed() []int {
	var idx []int
	for i, err := range o {
		if err != nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// FirstError returns the error of the lowest failed position, or nil.
func (o Outcomes) FirstError() error {
	for _, err := range o {
		if err != nil {
			return err
		}
	}
	return nil
}
