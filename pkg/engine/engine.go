// Package engine provides the Lisp evaluation engine for ride scripts. It
// wraps zygomys in a sandboxed environment and produces a ride.Config from
// user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chazu/ferris/pkg/ride"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code or an invalid ride.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for ride script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine creates a new Engine instance with the default EvalTimeout.
func NewEngine() *Engine {
	return &Engine{timeout: EvalTimeout}
}

// Evaluate takes Lisp source code and produces the ride configuration it
// describes. Keys the script does not set keep their ride.DefaultConfig
// values. Each call creates a fresh zygomys sandbox.
//
// Return semantics:
//   - On success: returns config + nil errors + nil error
//   - On parse/eval/validation failure: returns nil config + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*ride.Config, []EvalError, error) {
	r := e.start()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.done <- evalResult{err: fmt.Errorf("panic during evaluation: %v", rec)}
			}
		}()

		cfg, evalErrs, err := e.evaluate(source, &r.stopped)
		r.done <- evalResult{config: cfg, errors: evalErrs, err: err}
	}()

	return e.await(r)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, stopped *atomic.Bool) (*ride.Config, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "script is empty"}}, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sc := &scriptState{stopped: stopped}
	registerBuiltins(env, sc)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if sc.config == nil {
		return nil, []EvalError{{Message: "script defines no (ride ...) form"}}, nil
	}
	if err := sc.config.Validate(); err != nil {
		return nil, validationErrors(err), nil
	}
	return sc.config, nil, nil
}

// validationErrors splits a joined validation error into one EvalError per
// problem.
func validationErrors(err error) []EvalError {
	var out []EvalError
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, EvalError{Message: line})
		}
	}
	return out
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
