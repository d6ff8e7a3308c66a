package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
	"github.com/aretw0/formflow/pkg/session"
)

// Commands understood at the prompt, written with a leading colon.
const (
	CmdBack  = "back"
	CmdRoot  = "root"
	CmdRedo  = "redo"
	CmdFirst = "first"
	CmdFail  = "fail"
	CmdQuit  = "quit"
)

// ErrNoEngine is returned by Run when no Engine was configured.
var ErrNoEngine = errors.New("runner: no engine configured")

// Runner handles the interactive loop of a formflow Engine using provided IO.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Headless bool
	Renderer ContentRenderer

	engine *formflow.Engine
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the engine until the input ends, :quit is entered, the user
// interrupts at the prompt or ctx is cancelled. Only the last case returns an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return ErrNoEngine
	}
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		view := r.engine.Snapshot()
		screen := Screen{View: view, Markdown: RenderScreen(view, r.engine.Translator(), r.engine.Flows())}
		if err := handler.Output(ctx, screen); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		line, err := handler.Input(signals.Context())
		if err != nil {
			signals.CheckRace()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if signals.Interrupted() || errors.Is(err, io.EOF) {
				r.Logger.Debug("runner stopped", "reason", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		quit, err := r.dispatch(signals, handler, view, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	if !r.Headless {
		fmt.Fprintln(th.Writer, "--- formflow ---")
	}
	r.Handler = th
	return th
}

// dispatch turns one input line into an Engine operation.
func (r *Runner) dispatch(signals *SignalManager, h IOHandler, view formflow.View, line string) (bool, error) {
	eng := r.engine
	tr := eng.Translator()
	ctx := signals.Context()

	if name, arg, ok := parseCommand(line); ok {
		r.Logger.Debug("command", "name", name, "route", view.Route.String())
		var done bool
		switch name {
		case CmdQuit, "exit", "q":
			return true, nil
		case CmdBack:
			done = eng.Back()
		case CmdRoot:
			eng.ToRoot()
			done = true
		case CmdRedo:
			done = eng.Redo()
		case CmdFirst:
			done = eng.BackToFirstForm()
		case CmdFail:
			msg, err := SanitizeInput(arg)
			if err != nil {
				return false, h.SystemOutput(ctx, err.Error())
			}
			done = eng.Fail(msg)
		default:
			return false, h.SystemOutput(ctx, tr.Text("ui_unknown_input", "Unknown input"))
		}
		if !done {
			return false, h.SystemOutput(ctx, tr.Text("ui_not_available", "Not available on this screen"))
		}
		return false, nil
	}

	if form, ok := domain.FormForRoute(view.Route); ok {
		return false, r.submit(signals, h, tr, form, line)
	}

	text := strings.TrimSpace(line)
	switch {
	case view.Route == domain.RouteHome:
		if flowID, ok := pickFlow(eng.Flows(), text); ok && eng.Start(flowID) {
			return false, nil
		}
	case text == "":
		if eng.Next() {
			return false, nil
		}
	default:
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(view.Buttons) {
			if eng.Advance(view.Buttons[n-1].Route) {
				return false, nil
			}
		}
	}
	return false, h.SystemOutput(ctx, tr.Text("ui_unknown_input", "Unknown input"))
}

func (r *Runner) submit(signals *SignalManager, h IOHandler, tr *i18n.Translator, form domain.Form, line string) error {
	clean, err := SanitizeInput(line)
	if err != nil {
		return h.SystemOutput(signals.Context(), err.Error())
	}
	if err := r.engine.SetInput(form, clean); err != nil {
		return h.SystemOutput(signals.Context(), err.Error())
	}
	if err := h.SystemOutput(signals.Context(), tr.Text("ui_validating", "Checking...")); err != nil {
		return err
	}

	outcome, err := r.engine.Submit(signals.Context(), form)
	switch {
	case err == nil:
		r.Logger.Debug("form submitted", "form", form.String(), "outcome", string(outcome.Kind()))
		return nil
	case signals.Interrupted():
		signals.Reset()
		return h.SystemOutput(context.Background(), tr.Text("ui_canceled", "Check canceled"))
	case errors.Is(err, session.ErrValidationInFlight), errors.Is(err, formflow.ErrNavigatedAway):
		return h.SystemOutput(signals.Context(), err.Error())
	default:
		return fmt.Errorf("submit %s: %w", form, err)
	}
}

// parseCommand recognises ":name [argument]".
func parseCommand(line string) (name, arg string, ok bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), ":")
	if !ok {
		return "", "", false
	}
	name, arg, _ = strings.Cut(rest, " ")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

// pickFlow resolves a 1-based index or a flow ID.
func pickFlow(flows []domain.Flow, text string) (string, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		if n < 1 || n > len(flows) {
			return "", false
		}
		return flows[n-1].ID, true
	}
	for _, f := range flows {
		if strings.EqualFold(f.ID, text) {
			return f.ID, true
		}
	}
	return "", false
}
