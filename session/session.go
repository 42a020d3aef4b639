// Package session drives one form-filling interaction: it owns the answer
// map exclusively, recomputes visibility on demand, guards submission, and
// models photo/signature capture as a scoped acquisition so a cancelled
// capture can never leave partial writes behind.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldops/inspectforms/forms"
	"github.com/fieldops/inspectforms/model"
	"github.com/fieldops/inspectforms/prefs"
)

var (
	ErrSubmitInFlight   = errors.New("a submit attempt is already in flight")
	ErrAlreadySubmitted = errors.New("response already submitted")
	ErrCaptureOpen      = errors.New("a capture is in progress")
	ErrNoCaptureOpen    = errors.New("no capture in progress")
	ErrNotCapturable    = errors.New("field does not capture photo or signature data")
)

// ValidationError is returned by Submit when the answer map fails fill-time
// validation. It enumerates every offending field; the session stays
// editable and the user may fix and resubmit.
type ValidationError struct {
	Result forms.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form incomplete: %s", strings.Join(e.Result.Messages, ", "))
}

// Submitter hands a finished payload to the response store. The store call
// is atomic from the session's point of view: an error means nothing was
// persisted and the attempt may be retried.
type Submitter interface {
	Submit(ctx context.Context, resp model.FormResponse) error
}

type submitState int

const (
	editing submitState = iota
	inFlight
	submitted
)

// Session is the exclusive owner of one filling flow's mutable state. It is
// not safe for concurrent use; the interaction model is single-threaded and
// event-driven.
type Session struct {
	template model.FormTemplate
	who      model.Identity
	ctx      forms.Context

	answers map[string]any
	state   submitState

	capturing string // field id of the open capture, "" when none

	prefStore     prefs.Store
	signatureName string
}

// New starts a filling session over an already-loaded template. The caller
// resolves template fetch failures before this point; a session never
// retries a load. The remembered signature name is read from the preference
// store exactly once, here.
func New(t model.FormTemplate, who model.Identity, ctx forms.Context, store prefs.Store) *Session {
	s := &Session{
		template:  t,
		who:       who,
		ctx:       ctx,
		answers:   make(map[string]any),
		prefStore: store,
	}
	if store != nil {
		if name, err := store.Get(who.ID, prefs.KeySignatureName); err == nil {
			s.signatureName = name
		}
	}
	return s
}

// SetAnswer is the single sanctioned mutation point of the answer map.
// It is rejected while a capture is open and after a successful submit.
// Setting an answer never deletes other entries: a value whose field later
// becomes hidden stays in the map.
func (s *Session) SetAnswer(fieldID string, value any) error {
	if s.capturing != "" {
		return ErrCaptureOpen
	}
	if s.state == submitted {
		return ErrAlreadySubmitted
	}
	s.answers[fieldID] = value
	return nil
}

// Answer returns the stored value for a field id, hidden or not.
func (s *Session) Answer(fieldID string) (any, bool) {
	v, ok := s.answers[fieldID]
	return v, ok
}

// Answers returns a copy of the full answer map.
func (s *Session) Answers() map[string]any {
	out := make(map[string]any, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// RenderFields returns the fields to draw right now: section-grouped order
// with currently hidden fields filtered out. Recomputed from scratch on
// every call; nothing is cached.
func (s *Session) RenderFields() []model.FormField {
	grouped := forms.GroupSections(s.template.Fields)
	out := make([]model.FormField, 0, len(grouped))
	for _, f := range grouped {
		if forms.IsVisible(f, s.answers) {
			out = append(out, f)
		}
	}
	return out
}

// SelectEquipment records the in-session equipment pick. It overrides any
// externally supplied equipment id when the payload is built.
func (s *Session) SelectEquipment(id string) {
	s.ctx.SelectedEquipmentID = id
}

// Validate runs the fill-time checks against the current answer map.
// equipmentAvailable reports whether the catalog offers at least one
// assignable unit for this template.
func (s *Session) Validate(equipmentAvailable bool) forms.Result {
	return forms.Validate(s.template, s.answers, s.ctx.SelectedEquipmentID, equipmentAvailable)
}

// BeginCapture opens the modal photo/signature acquisition for a field.
// Answer editing is suspended until Commit or Cancel.
func (s *Session) BeginCapture(fieldID string) error {
	if s.capturing != "" {
		return ErrCaptureOpen
	}
	f, ok := s.field(fieldID)
	if !ok {
		return fmt.Errorf("no field with id %q", fieldID)
	}
	if f.FieldType != model.FieldPhoto && f.FieldType != model.FieldSignature {
		return ErrNotCapturable
	}
	s.capturing = fieldID
	return nil
}

// CommitCapture stores the captured data URI under the capturing field and
// closes the capture.
func (s *Session) CommitCapture(dataURI string) error {
	if s.capturing == "" {
		return ErrNoCaptureOpen
	}
	s.answers[s.capturing] = dataURI
	s.capturing = ""
	return nil
}

// CancelCapture closes the capture without touching the answer map.
func (s *Session) CancelCapture() {
	s.capturing = ""
}

// SignatureName is the remembered name read at session start, if any.
func (s *Session) SignatureName() string {
	return s.signatureName
}

// RememberSignatureName persists the name for future sessions. Called only
// on explicit user opt-in.
func (s *Session) RememberSignatureName(name string) error {
	s.signatureName = name
	if s.prefStore == nil {
		return nil
	}
	return s.prefStore.Put(s.who.ID, prefs.KeySignatureName, name)
}

// Submit validates, builds the payload, and hands it to the response store.
// Only one attempt may be in flight and a successful submit is final; a
// failed store call re-arms the session with the answer map intact so the
// user can retry.
func (s *Session) Submit(ctx context.Context, store Submitter, equipmentAvailable bool) (model.FormResponse, error) {
	switch s.state {
	case inFlight:
		return model.FormResponse{}, ErrSubmitInFlight
	case submitted:
		return model.FormResponse{}, ErrAlreadySubmitted
	}

	if res := s.Validate(equipmentAvailable); res.Invalid() {
		return model.FormResponse{}, &ValidationError{Result: res}
	}

	payload := forms.BuildPayload(s.template, s.answers, s.who, s.ctx)

	s.state = inFlight
	if err := store.Submit(ctx, payload); err != nil {
		s.state = editing
		return model.FormResponse{}, err
	}
	s.state = submitted
	return payload, nil
}

func (s *Session) field(fieldID string) (model.FormField, bool) {
	for _, f := range s.template.Fields {
		if f.FieldID == fieldID {
			return f, true
		}
	}
	return model.FormField{}, false
}
