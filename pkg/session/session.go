package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

var (
	// ErrValidationInFlight is returned when a validation for the same form is still pending.
	ErrValidationInFlight = errors.New("validation already in flight")
	// ErrNoValidator is returned when no validator is registered for a form.
	ErrNoValidator = errors.New("no validator registered for form")
)

// DefaultLease bounds how long a form stays locked by a validation whose holder vanished.
const DefaultLease = 30 * time.Second

// pending tracks one running validation. The pointer identity tells runs apart.
type pending struct {
	cancel context.CancelFunc
}

// Session owns the live form data of one user and runs their validations.
// It never navigates: callers decide what an outcome means.
type Session struct {
	id         string
	validators map[domain.Form]ports.Validator
	locker     ports.FormLocker
	lease      time.Duration
	logger     *slog.Logger
	hooks      domain.LifecycleHooks

	mu           sync.Mutex
	forms        map[domain.Form]domain.FormState
	errorMessage string
	pending      map[domain.Form]*pending

	loading *atomic.Bool
	runs    *atomic.Int64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithID sets the identifier used for lock keys and events.
func WithID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithFormLocker replaces the in-process guard, e.g. with a Redis lease.
func WithFormLocker(l ports.FormLocker) SessionOption {
	return func(s *Session) {
		s.locker = l
	}
}

// WithLease sets the TTL of the in-flight guard.
func WithLease(d time.Duration) SessionOption {
	return func(s *Session) {
		s.lease = d
	}
}

// WithSessionLogger configures the session logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHooks registers validation lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) SessionOption {
	return func(s *Session) {
		s.hooks = h
	}
}

// New creates a session with fresh forms.
func New(validators map[domain.Form]ports.Validator, opts ...SessionOption) *Session {
	s := &Session{
		id:         "local",
		validators: make(map[domain.Form]ports.Validator, len(validators)),
		lease:      DefaultLease,
		logger:     logging.NewNop(),
		forms:      make(map[domain.Form]domain.FormState, len(domain.AllForms)),
		pending:    make(map[domain.Form]*pending),
		loading:    atomic.NewBool(false),
		runs:       atomic.NewInt64(0),
	}
	for f, v := range validators {
		s.validators[f] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locker == nil {
		s.locker = memory.NewLocker()
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// RunValidation validates the current input of form and returns the outcome.
// A second call for the same form while the first is pending fails with
// ErrValidationInFlight. The error is otherwise non-nil only when ctx ends or the
// run is cancelled before the validator answers.
func (s *Session) RunValidation(ctx context.Context, form domain.Form) (domain.ValidationOutcome, error) {
	validator, ok := s.validators[form]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoValidator, form)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	run := &pending{cancel: cancel}

	s.mu.Lock()
	if _, busy := s.pending[form]; busy {
		s.mu.Unlock()
		return nil, ErrValidationInFlight
	}
	s.pending[form] = run
	s.mu.Unlock()

	unlock, err := s.locker.TryLock(ctx, s.lockKey(form), s.lease)
	if err != nil {
		s.finish(form, run)
		if errors.Is(err, ports.ErrLockHeld) {
			return nil, ErrValidationInFlight
		}
		return nil, fmt.Errorf("failed to acquire validation guard: %w", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release validation guard (will expire via lease)",
				"session_id", s.id,
				"form", form.String(),
				"err", err,
			)
		}
	}()

	s.mu.Lock()
	input := s.forms[form].TextInput
	s.errorMessage = ""
	s.mu.Unlock()
	s.loading.Store(true)

	s.runs.Inc()
	start := time.Now()
	if s.hooks.OnValidationStart != nil {
		s.hooks.OnValidationStart(ctx, s.validationEvent(domain.EventValidationStart, form))
	}

	outcome, err := validator.Validate(runCtx, strings.TrimSpace(input))
	s.finish(form, run)

	if s.hooks.OnValidationEnd != nil {
		evt := s.validationEvent(domain.EventValidationEnd, form)
		evt.Duration = time.Since(start)
		evt.Err = err
		if outcome != nil {
			evt.Outcome = outcome.Kind()
		}
		s.hooks.OnValidationEnd(ctx, evt)
	}

	if err != nil {
		s.logger.Debug("validation aborted", "session_id", s.id, "form", form.String(), "err", err)
		return nil, err
	}
	s.logger.Debug("validation finished", "session_id", s.id, "form", form.String(), "outcome", outcome.Kind())
	return outcome, nil
}

// finish drops run from the pending set if it is still the registered one.
func (s *Session) finish(form domain.Form, run *pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[form] == run {
		delete(s.pending, form)
	}
	if len(s.pending) == 0 {
		s.loading.Store(false)
	}
}

// SetInput replaces the text of form and clears the inline error.
func (s *Session) SetInput(form domain.Form, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.forms[form]
	st.TextInput = text
	s.forms[form] = st
	s.errorMessage = ""
}

// SetSelection stores the selection index of form.
func (s *Session) SetSelection(form domain.Form, selection int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.forms[form]
	st.Selection = selection
	s.forms[form] = st
}

// SetErrorMessage sets the transient inline error. An empty message clears it.
func (s *Session) SetErrorMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorMessage = msg
}

// MarkFatal records msg on the form itself so it travels to the Error screen,
// and returns the updated form.
func (s *Session) MarkFatal(form domain.Form, msg string) domain.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.forms[form]
	st.ErrorMessage = msg
	s.forms[form] = st
	return st
}

// Form returns a copy of the live state of form.
func (s *Session) Form(form domain.Form) domain.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms[form]
}

// ErrorMessage returns the inline error, empty when none.
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorMessage
}

// IsLoading reports whether any validation is running.
func (s *Session) IsLoading() bool {
	return s.loading.Load()
}

// IsPending reports whether a validation for form is running.
func (s *Session) IsPending(form domain.Form) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[form]
	return ok
}

// Runs returns the number of validations started over the session lifetime.
func (s *Session) Runs() int64 {
	return s.runs.Load()
}

// ResetForm replaces form with a fresh one and cancels its pending validation.
func (s *Session) ResetForm(form domain.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(form)
	s.forms[form] = domain.FormState{}
}

// Reset returns the session to its initial state: fresh forms and no error.
// Pending validations are cancelled; they keep reporting IsLoading and
// IsPending until their validator returns.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range domain.AllForms {
		s.cancelLocked(f)
		s.forms[f] = domain.FormState{}
	}
	s.errorMessage = ""
}

// Cancel aborts the pending validation of form, if any.
func (s *Session) Cancel(form domain.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(form)
}

// CancelAll aborts every pending validation.
func (s *Session) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range domain.AllForms {
		s.cancelLocked(f)
	}
}

// cancelLocked must be called with s.mu held. The run keeps its guard until
// its validator returns, so a new submission is still rejected until then.
func (s *Session) cancelLocked(form domain.Form) {
	if run, ok := s.pending[form]; ok {
		run.cancel()
	}
}

func (s *Session) lockKey(form domain.Form) string {
	return "session:" + s.id + ":" + form.String()
}

func (s *Session) validationEvent(t domain.EventType, form domain.Form) *domain.ValidationEvent {
	return &domain.ValidationEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      t,
			SessionID: s.id,
		},
		Form: form,
	}
}
