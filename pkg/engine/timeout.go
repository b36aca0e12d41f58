package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/chazu/ferris/pkg/ride"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's timeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned when a newer Evaluate started before this
	// one finished.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")

	errCancelled = errors.New("evaluation cancelled")
)

type evalResult struct {
	config *ride.Config
	errors []EvalError
	err    error
}

// evalRun is one evaluation in flight. When it times out, stopped is set
// and the sandbox's builtins refuse to run, so a script that keeps calling
// them unwinds instead of holding its goroutine.
type evalRun struct {
	gen     uint64
	stopped atomic.Bool
	done    chan evalResult // buffered; the sandbox never blocks on send
}

func (e *Engine) start() *evalRun {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return &evalRun{gen: e.generation, done: make(chan evalResult, 1)}
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// await blocks until r finishes or the engine timeout passes. A result from
// a run that is no longer the newest is discarded.
func (e *Engine) await(r *evalRun) (*ride.Config, []EvalError, error) {
	limit := e.timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-r.done:
		if r.gen != e.current() {
			return nil, nil, ErrSuperseded
		}
		return res.config, res.errors, res.err
	case <-timer.C:
		r.stopped.Store(true)
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
