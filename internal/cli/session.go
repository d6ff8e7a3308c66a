package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/presentation/tui"
	"github.com/aretw0/formflow/pkg/runner"
)

// RunSession drives one interactive session on in/out.
// Interrupts are handled by the runner: Ctrl+C cancels a running check, or
// ends the session at the prompt.
func RunSession(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	logger := createLogger(opts)
	quiet := opts.JSON || opts.Headless

	if !quiet {
		tui.PrintBanner(out, formflow.Version)
	}

	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	if opts.FlowID != "" && !engine.Start(opts.FlowID) {
		return fmt.Errorf("unknown flow %q", opts.FlowID)
	}

	logger.Debug("session created", "session_id", engine.ID())

	r := runner.NewRunner(append(createRunnerOptions(logger, opts, in, out), runner.WithEngine(engine))...)
	if err := r.Run(ctx); err != nil {
		return err
	}

	if !quiet {
		printSystemMessage(out, "Finished at '%s'.", strings.TrimSpace(engine.CurrentRoute().String()))
	}
	return nil
}
