package formflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/i18n"
	"github.com/aretw0/formflow/pkg/navigation"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/session"
	"github.com/aretw0/formflow/pkg/validation"
)

var (
	// ErrFormNotActive is returned when a form is edited or submitted while another screen is shown.
	ErrFormNotActive = errors.New("form is not the current screen")
	// ErrNavigatedAway is returned by Submit when the form was left before its validation finished.
	ErrNavigatedAway = errors.New("form left before validation finished")
)

// Engine is the high-level entry point of formflow.
// It drives one user's session: the flow selection, the router stack and the
// live form data, serialized by a single mutex. Validators run outside that
// mutex, so the engine stays responsive while a submission is pending.
type Engine struct {
	id     string
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	tr     *i18n.Translator

	source      ports.FlowSource
	inlineFlows []domain.Flow
	validators  map[domain.Form]ports.Validator
	locker      ports.FormLocker
	lease       time.Duration

	mu      sync.Mutex
	flows   *navigation.FlowManager
	router  *navigation.Router
	session *session.Session
	events  *broadcaster
	// screens counts screen changes; Submit uses it to detect a left form.
	screens uint64
}

// New initializes a new Engine positioned on Home.
// By default it uses the embedded catalog and the shipped validators.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		id:         "local",
		validators: validation.Registry(validation.DefaultLatencies()),
		lease:      session.DefaultLease,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("session_id", eng.id)
	if eng.tr == nil {
		eng.tr = i18n.Default()
	}

	flows, err := eng.loadFlows()
	if err != nil {
		return nil, err
	}
	eng.flows, err = navigation.NewFlowManager(flows...)
	if err != nil {
		return nil, err
	}

	sessOpts := []session.SessionOption{
		session.WithID(eng.id),
		session.WithLease(eng.lease),
		session.WithSessionLogger(eng.logger),
		session.WithHooks(eng.hooks),
	}
	if eng.locker != nil {
		sessOpts = append(sessOpts, session.WithFormLocker(eng.locker))
	}
	eng.session = session.New(eng.validators, sessOpts...)
	eng.router = navigation.NewRouter()
	eng.events = newBroadcaster()
	if eng.hooks.OnEventDropped != nil {
		eng.events.dropped = func(evt domain.RouteEvent) {
			eng.hooks.OnEventDropped(context.Background(), &evt)
		}
	}

	return eng, nil
}

func (e *Engine) loadFlows() ([]domain.Flow, error) {
	if len(e.inlineFlows) > 0 {
		if err := catalog.Validate(e.inlineFlows); err != nil {
			return nil, fmt.Errorf("invalid flows: %w", err)
		}
		return e.inlineFlows, nil
	}
	src := e.source
	if src == nil {
		src = catalog.Default()
	}
	flows, err := src.Flows(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load flows: %w", err)
	}
	return flows, nil
}

// ID returns the session identifier.
func (e *Engine) ID() string {
	return e.id
}

// Translator returns the translator used for titles and messages.
func (e *Engine) Translator() *i18n.Translator {
	return e.tr
}

// Flows returns the available flows in catalog order.
func (e *Engine) Flows() []domain.Flow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flows.AvailableFlows()
}

// CurrentFlow returns the selected flow.
func (e *Engine) CurrentFlow() domain.Flow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flows.CurrentFlow()
}

// CurrentRoute returns the screen being displayed.
func (e *Engine) CurrentRoute() domain.Route {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.router.CurrentRoute()
}

// Subscribe delivers every route change until cancel is called.
// Events that do not fit in buffer are dropped for that subscriber.
func (e *Engine) Subscribe(buffer int) (<-chan domain.RouteEvent, func()) {
	return e.events.subscribe(buffer)
}

// Close aborts pending validations and ends every subscription.
func (e *Engine) Close() {
	e.session.CancelAll()
	e.events.close()
}

// --- Forward navigation ---

// Start selects flowID and shows its start route, discarding the current journey.
// An unknown flow id or an active Error screen leaves everything unchanged.
func (e *Engine) Start(flowID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onError() {
		return false
	}
	flow, ok := e.flows.Flow(flowID)
	if !ok {
		e.logger.Debug("unknown flow ignored", "flow", flowID)
		return false
	}

	return e.transition(func() bool {
		e.enterHome()
		e.flows.SelectFlow(flow.ID)
		return e.router.Navigate(flow.StartRoute, nil)
	})
}

// Advance moves to route when the current flow allows it after the current screen,
// carrying the current frame's data onward. Form screens advance only through Submit.
func (e *Engine) Advance(route domain.Route) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advanceLocked(route)
}

// Next advances to the first route the flow allows after the current screen.
func (e *Engine) Next() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.flows.NextRoutes(e.router.CurrentRoute())
	if len(next) == 0 {
		return false
	}
	return e.advanceLocked(next[0])
}

func (e *Engine) advanceLocked(route domain.Route) bool {
	current := e.router.CurrentRoute()
	if e.onError() || current.IsForm() || !e.flows.CurrentFlow().Allows(current, route) {
		return false
	}

	var data *domain.FormState
	if d, ok := e.router.CurrentData(); ok {
		data = &d
	}
	return e.transition(func() bool {
		return e.router.Navigate(route, data)
	})
}

// --- Forms ---

// SetInput replaces the text of form. The form must be the current screen.
// Any inline error is cleared.
func (e *Engine) SetInput(form domain.Form, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.router.CurrentRoute() != form.Route() {
		return ErrFormNotActive
	}
	e.session.SetInput(form, text)
	return nil
}

// SetSelection stores the selection index of form. The form must be the current screen.
func (e *Engine) SetSelection(form domain.Form, selection int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.router.CurrentRoute() != form.Route() {
		return ErrFormNotActive
	}
	e.session.SetSelection(form, selection)
	return nil
}

// Submit validates form and acts on the outcome:
//   - Valid moves to the first route allowed after the form, carrying a snapshot of it.
//   - Invalid keeps the screen and shows the message inline.
//   - Fatal records an error message on the form and opens the Error screen.
//
// A second Submit of the same form while one is pending fails with
// session.ErrValidationInFlight. Leaving the form cancels its validation and
// Submit returns ErrNavigatedAway without applying anything.
func (e *Engine) Submit(ctx context.Context, form domain.Form) (domain.ValidationOutcome, error) {
	e.mu.Lock()
	if e.router.CurrentRoute() != form.Route() {
		e.mu.Unlock()
		return nil, ErrFormNotActive
	}
	screen := e.screens
	e.mu.Unlock()

	outcome, err := e.session.RunValidation(ctx, form)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.Canceled) {
			return nil, ErrNavigatedAway
		}
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.screens != screen {
		return nil, ErrNavigatedAway
	}

	outcome = e.tr.Outcome(outcome)
	switch o := outcome.(type) {
	case domain.Valid:
		next := e.flows.NextRoutes(form.Route())
		if len(next) == 0 {
			e.logger.Warn("valid form has no next route", "form", form.String(), "flow", e.flows.CurrentFlow().ID)
			break
		}
		data := e.session.Form(form)
		e.transition(func() bool {
			return e.router.Navigate(next[0], &data)
		})
	case domain.Invalid:
		e.session.SetErrorMessage(o.Message)
	case domain.Fatal:
		data := e.session.MarkFatal(form, e.tr.Message(i18n.MsgFatalForm))
		e.transition(func() bool {
			return e.router.Navigate(domain.RouteError, &data)
		})
	}
	return outcome, nil
}

// --- Backward navigation ---

// Back returns to the previous screen, clearing the data of a form being left.
// Backing out of the first screen re-enters Home, which resets the session.
func (e *Engine) Back() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onError() {
		return false
	}
	return e.transition(func() bool {
		popped, ok := e.router.Back()
		if !ok {
			return false
		}
		if form, isForm := domain.FormForRoute(popped.Route); isForm {
			e.session.ResetForm(form)
		}
		if e.router.CurrentRoute() == domain.RouteHome {
			e.enterHome()
		}
		return true
	})
}

// ToRoot closes the journey and returns Home. It is the only way out of the Error screen.
func (e *Engine) ToRoot() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.transition(func() bool {
		e.router.ToRoot()
		e.enterHome()
		return true
	})
}

// Redo returns to the earliest form of the journey for a fresh attempt,
// clearing every form that was part of it.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onError() {
		return false
	}
	var visited []domain.Form
	for _, f := range domain.AllForms {
		if e.router.Contains(f.Route()) {
			visited = append(visited, f)
		}
	}
	return e.transition(func() bool {
		if _, ok := e.router.BackToEarliestForm(); !ok {
			return false
		}
		for _, f := range visited {
			e.session.ResetForm(f)
		}
		e.session.SetErrorMessage("")
		return true
	})
}

// BackTo returns to the most recent visit of route.
func (e *Engine) BackTo(route domain.Route) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onError() {
		return false
	}
	return e.transition(func() bool {
		return e.router.BackTo(route)
	})
}

// BackToFirstForm returns to the most recent form screen of the journey.
func (e *Engine) BackToFirstForm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onError() {
		return false
	}
	return e.transition(func() bool {
		if !e.router.BackToFirstForm() {
			return false
		}
		e.router.SetTransitionDirection(domain.DirectionBackward)
		return true
	})
}

// Fail opens the Error screen with message, or a generic message when empty.
func (e *Engine) Fail(message string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onError() || e.router.CurrentRoute() == domain.RouteHome {
		return false
	}
	if message == "" {
		message = e.tr.Message(i18n.MsgPreviewError)
	}
	data := domain.FormState{ErrorMessage: message}
	return e.transition(func() bool {
		return e.router.Navigate(domain.RouteError, &data)
	})
}

// --- Internals (e.mu held) ---

func (e *Engine) onError() bool {
	return e.router.CurrentRoute() == domain.RouteError
}

// enterHome is the guard run whenever Home is (re)entered.
func (e *Engine) enterHome() {
	e.session.Reset()
	e.router.Cleanup()
}

// transition runs fn and, when the screen changed, cancels work bound to the
// screen being left and notifies hooks and subscribers.
func (e *Engine) transition(fn func() bool) bool {
	from, depth := e.router.CurrentRoute(), e.router.Depth()
	if !fn() {
		return false
	}
	e.screens++
	to, newDepth := e.router.CurrentRoute(), e.router.Depth()
	if from == to && depth == newDepth {
		return true
	}

	if form, ok := domain.FormForRoute(from); ok {
		e.session.Cancel(form)
	}

	ctx := context.Background()
	dir := e.router.TransitionDirection()
	if e.hooks.OnRouteLeave != nil {
		e.hooks.OnRouteLeave(ctx, e.routeEvent(domain.EventRouteLeave, from, dir, depth))
	}
	enter := e.routeEvent(domain.EventRouteEnter, to, dir, newDepth)
	if e.hooks.OnRouteEnter != nil {
		e.hooks.OnRouteEnter(ctx, enter)
	}
	e.events.publish(*enter)

	e.logger.Debug("route changed", "from", from.String(), "to", to.String(), "direction", string(dir), "depth", newDepth)
	return true
}

func (e *Engine) routeEvent(t domain.EventType, r domain.Route, dir domain.TransitionDirection, depth int) *domain.RouteEvent {
	return &domain.RouteEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      t,
			SessionID: e.id,
		},
		Route:     r,
		Direction: dir,
		Depth:     depth,
	}
}
