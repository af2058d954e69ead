// Package trigger spawns ingestion runs as child processes on request.
package trigger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const waitDelay = 5 * time.Second

// Request is the body of a run trigger
type Request struct {
	// Script is accepted for compatibility with older callers and ignored;
	// the configured command always runs.
	Script       string `json:"script,omitempty"`
	FeedURL      string `json:"feedUrl" jsonschema:"required"`
	SourceFeedID string `json:"sourceFeedId" jsonschema:"required"`
}

// Response reports the child process result
type Response struct {
	Code   int    `json:"code"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Runner executes one triggered run
type Runner interface {
	Run(ctx context.Context, req Request) (Response, error)
}

// Exec runs the ingest subcommand of a binary
type Exec struct {
	// Command is the executable, Args are placed before "ingest <feed-url>"
	Command string
	Args    []string
	// Env is appended to the parent process environment
	Env     []string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Run starts the process, waits for it and returns its exit code and output.
// A non-zero exit is not an error. An error is returned only when the process
// could not be started.
func (e *Exec) Run(ctx context.Context, req Request) (Response, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	// "--" keeps a feed url starting with a dash from being read as a flag
	args := append(append([]string{}, e.Args...), "ingest", "--", req.FeedURL)
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Env = append(append(os.Environ(), e.Env...), "SOURCE_FEED_ID="+req.SourceFeedID)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// grandchildren holding the output pipes must not block Wait forever
	cmd.WaitDelay = waitDelay

	if req.Script != "" {
		e.Logger.Debug().Str("script", req.Script).Msg("Ignoring script parameter")
	}
	e.Logger.Info().
		Str("command", e.Command).
		Str("feed_url", req.FeedURL).
		Str("source_feed_id", req.SourceFeedID).
		Msg("Starting run")

	started := time.Now()
	err := cmd.Run()
	resp := Response{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		resp.Code = exitErr.ExitCode()
		if ctx.Err() != nil {
			resp.Stderr = strings.TrimRight(resp.Stderr, "\n") + "\nrun aborted: " + ctx.Err().Error()
		}
	default:
		return Response{}, fmt.Errorf("failed to start %s: %w", e.Command, err)
	}

	observeRun(resp.Code, time.Since(started))
	e.Logger.Info().
		Int("code", resp.Code).
		Dur("duration", time.Since(started)).
		Str("source_feed_id", req.SourceFeedID).
		Msg("Run finished")

	return resp, nil
}
