// Package runner executes selected actions as child processes.
//
// Execution is sequential in declaration order: formatting actions rewrite
// files on disk and later checks must observe the rewritten contents, so the
// filesystem is the hand-off between stages. An opt-in parallel mode exists
// for runs where that hand-off cannot occur (see parallel.go).
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	precheckerrors "github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/logging"
	"github.com/arthur-debert/precheck/pkg/registry"
)

// reapDelay bounds how long a killed child may linger before Wait gives up
// on its copied pipes
const reapDelay = 5 * time.Second

// Options contains configuration for the runner
type Options struct {
	// Shell is the interpreter used to run rendered commands
	Shell string
	// Dir is the working directory for child processes ("" = inherit)
	Dir string
	// Env is the child environment (nil = inherit)
	Env []string
	// Parallel enables the concurrent mode when the selection allows it
	Parallel bool
	// Workers bounds the parallel mode (0 = number of selections)
	Workers int
	Logger  zerolog.Logger
}

// Runner executes selections and collects results
type Runner struct {
	shell    string
	dir      string
	env      []string
	parallel bool
	workers  int
	logger   zerolog.Logger
}

// Result is the outcome of one action invocation
type Result struct {
	Action   string
	Files    []string
	Command  string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	Err      error
	// Skipped is set for actions never dispatched because the run was
	// interrupted before their turn
	Skipped bool
}

// Failed reports whether the invocation counts against the overall run
func (r Result) Failed() bool {
	return !r.Skipped && (r.Err != nil || r.ExitCode != 0)
}

// Summary aggregates a run's results
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// OK reports whether every dispatched action succeeded
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Summarize folds results into a summary
func Summarize(results []Result) Summary {
	sum := Summary{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Skipped:
			sum.Skipped++
		case res.Failed():
			sum.Failed++
		default:
			sum.Passed++
		}
	}
	return sum
}

// New creates a new runner instance
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("runner")
	}

	shell := opts.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	return &Runner{
		shell:    shell,
		dir:      opts.Dir,
		env:      opts.Env,
		parallel: opts.Parallel,
		workers:  opts.Workers,
		logger:   logger,
	}
}

// Run executes the selections and returns one result per selection, in
// declaration order. A failing action does not stop later actions; each is
// independent. Cancellation kills the running child, marks the remaining
// selections skipped, and returns the partial results alongside an
// INTERRUPTED error.
func (r *Runner) Run(ctx context.Context, selections []registry.Selection) ([]Result, error) {
	if r.parallel && canParallelize(selections) {
		return r.runParallel(ctx, selections)
	}

	results := make([]Result, 0, len(selections))

	for i, sel := range selections {
		if ctx.Err() != nil {
			for _, rest := range selections[i:] {
				results = append(results, Result{Action: rest.Action.Name, Files: rest.Files, Skipped: true})
			}
			return results, precheckerrors.Wrap(ctx.Err(), precheckerrors.ErrInterrupted,
				"run aborted before all actions completed")
		}

		results = append(results, r.runOne(ctx, sel))
	}

	if ctx.Err() != nil {
		return results, precheckerrors.Wrap(ctx.Err(), precheckerrors.ErrInterrupted,
			"run aborted before all actions completed")
	}

	return results, nil
}

// runOne renders and executes a single selection
func (r *Runner) runOne(ctx context.Context, sel registry.Selection) Result {
	start := time.Now()

	result := Result{
		Action: sel.Action.Name,
		Files:  sel.Files,
	}

	command, err := sel.Action.RenderCommand(sel.Files)
	if err != nil {
		result.Err = err
		result.ExitCode = -1
		result.Duration = time.Since(start)
		return result
	}
	result.Command = command

	r.logger.Debug().
		Str("action", sel.Action.Name).
		Str("command", command).
		Int("files", len(sel.Files)).
		Msg("Executing action")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Dir = r.dir
	cmd.Env = r.env
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Guarantee the child is reaped even when the parent is interrupted:
	// CommandContext kills on ctx cancellation and WaitDelay bounds the wait
	cmd.WaitDelay = reapDelay

	err = cmd.Run()
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()
	result.Duration = time.Since(start)

	switch {
	case err == nil:
		r.logger.Info().
			Str("action", sel.Action.Name).
			Dur("duration", result.Duration).
			Msg("Action succeeded")

	case ctx.Err() != nil:
		result.ExitCode = exitCodeOf(err)
		result.Err = precheckerrors.Wrapf(ctx.Err(), precheckerrors.ErrInterrupted,
			"action %q interrupted", sel.Action.Name).WithDetail("action", sel.Action.Name)
		r.logger.Warn().
			Str("action", sel.Action.Name).
			Msg("Action interrupted")

	case isExitError(err):
		result.ExitCode = exitCodeOf(err)
		result.Err = precheckerrors.Newf(precheckerrors.ErrActionExecute,
			"action %q exited with code %d", sel.Action.Name, result.ExitCode).
			WithDetail("action", sel.Action.Name).
			WithDetail("exitCode", result.ExitCode)
		r.logger.Error().
			Str("action", sel.Action.Name).
			Int("exitCode", result.ExitCode).
			Msg("Action failed")

	default:
		// The process never ran: executable missing, permission denied, etc.
		result.ExitCode = -1
		result.Err = precheckerrors.Wrapf(err, precheckerrors.ErrProcessSpawn,
			"action %q could not be started", sel.Action.Name).
			WithDetail("action", sel.Action.Name)
		r.logger.Error().
			Err(err).
			Str("action", sel.Action.Name).
			Msg("Failed to spawn action process")
	}

	return result
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
