// Package engine provides the terrain scripting console. It wraps zygomys
// in a sandboxed environment and exposes builtins that move the streaming
// reference point, tick the chunk manager, edit density and cast rays.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/loam/pkg/terrain"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a non-fatal problem noticed by a builtin, such as an edit
// that landed where no chunk is resident.
type EvalWarning struct {
	Message string `json:"message"`
}

// Transcript records what a script did to the terrain.
type Transcript struct {
	// Ticks holds the stats of every tick the script ran, in order.
	Ticks []terrain.TickStats `json:"ticks"`
	// Hits holds every raycast result, misses included, in call order.
	Hits []terrain.RayHit `json:"hits"`
	// Edited counts chunks flagged by add-density and stamp.
	Edited int `json:"edited"`
	// Result is the printed value of the last expression.
	Result   string        `json:"result"`
	Warnings []EvalWarning `json:"warnings,omitempty"`
}

// Options configures an Engine.
type Options struct {
	// Timeout bounds a single Run. Zero means EvalTimeout.
	Timeout time.Duration
	// MaxSettleTicks bounds (settle). Zero means DefaultMaxSettleTicks.
	MaxSettleTicks int
	Logger         *slog.Logger
}

// DefaultMaxSettleTicks is the number of ticks (settle) gives up after.
const DefaultMaxSettleTicks = 4096

// Engine runs scripts against one terrain.Manager. Runs are serialized;
// each creates a fresh sandboxed environment, while the manager keeps its
// state across runs.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	// run is held for the whole evaluation so two scripts never drive the
	// manager at once.
	run sync.Mutex

	mgr  *terrain.Manager
	opts Options
	log  *slog.Logger
}

// New creates an Engine driving m.
func New(m *terrain.Manager, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = EvalTimeout
	}
	if opts.MaxSettleTicks <= 0 {
		opts.MaxSettleTicks = DefaultMaxSettleTicks
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{mgr: m, opts: opts, log: log}
}

// Manager returns the manager scripts operate on.
func (e *Engine) Manager() *terrain.Manager {
	return e.mgr
}

// Run evaluates source.
//
// Return semantics:
//   - On success: returns transcript + nil errors + nil error
//   - On parse/eval failure: returns nil transcript + eval errors + nil error
//   - On fatal failure (timeout, panic, cancellation): returns nil + nil + error
//
// Effects on the manager made before a failure are kept.
func (e *Engine) Run(ctx context.Context, source string) (*Transcript, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		e.run.Lock()
		defer e.run.Unlock()
		tr, evalErrs, err := e.evaluate(ctx, source)
		ch <- evalResult{transcript: tr, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ctx, ch, gen, &e.mu, &e.generation)
}

// evaluate performs the zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(ctx context.Context, source string) (*Transcript, []EvalError, error) {
	tr := &Transcript{}
	if strings.TrimSpace(source) == "" {
		return tr, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := &session{ctx: ctx, mgr: e.mgr, tr: tr, log: e.log, maxSettle: e.opts.MaxSettleTicks}
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	res, err := env.Run()
	if ctx.Err() != nil {
		return nil, nil, fmt.Errorf("evaluation aborted: %w", ctx.Err())
	}
	if err != nil {
		return nil, parseZygomysError(err), nil
	}
	if res != nil {
		tr.Result = res.SexpString(nil)
	}
	e.log.Debug("script finished", "ticks", len(tr.Ticks), "raycasts", len(tr.Hits), "edited", tr.Edited)
	return tr, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
