package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/session"
)

// FormState is the modal state of a Form.
type FormState int

const (
	FormClosed FormState = iota
	FormOpenCreate
	FormOpenEdit
)

func (s FormState) Open() bool {
	return s != FormClosed
}

// Draft is the editable copy of an entity. With returns the draft with one
// field changed and ignores unknown fields.
type Draft[D any] interface {
	With(field, value string) D
	RequiredName() string
}

// Sessions is the session capability controllers depend on. *session.Gate
// implements it.
type Sessions interface {
	Require(ctx context.Context) (session.Session, error)
	Login(ctx context.Context, user api.User) error
	Merge(ctx context.Context, user api.User) (session.Session, error)
}

// Form drives a create/edit modal over a List.
type Form[T Entity, D Draft[D]] struct {
	mu      sync.Mutex
	list    *List[T, D]
	gate    Sessions
	blank   func() D
	hydrate func(T) D

	state      FormState
	target     *T
	draft      D
	err        error
	submitting bool
}

// NewForm creates a closed form. blank builds a create-mode draft and hydrate
// builds an edit-mode draft from an entity.
func NewForm[T Entity, D Draft[D]](list *List[T, D], gate Sessions, blank func() D, hydrate func(T) D) *Form[T, D] {
	return &Form[T, D]{
		list:    list,
		gate:    gate,
		blank:   blank,
		hydrate: hydrate,
		draft:   blank(),
	}
}

func (f *Form[T, D]) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.target = nil
	f.draft = f.blank()
	f.err = nil
	f.state = FormOpenCreate
}

func (f *Form[T, D]) OpenEdit(entity T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.target = &entity
	f.draft = f.hydrate(entity)
	f.err = nil
	f.state = FormOpenEdit
}

// ChangeField edits the draft. It does nothing while closed.
func (f *Form[T, D]) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.Open() {
		return
	}
	f.draft = f.draft.With(name, value)
}

// Close discards the draft and target.
func (f *Form[T, D]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.close()
}

func (f *Form[T, D]) close() {
	f.state = FormClosed
	f.target = nil
	f.draft = f.blank()
	f.err = nil
}

// Submit saves the draft, creating or updating depending on the mode. It
// reports whether the form closed. A blank name or a missing session stops
// it before any remote call.
func (f *Form[T, D]) Submit(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if !f.state.Open() || f.submitting {
		f.mu.Unlock()
		return false, nil
	}
	if strings.TrimSpace(f.draft.RequiredName()) == "" {
		f.err = invalid("name", "name is required")
		err := f.err
		f.mu.Unlock()
		return false, err
	}
	draft, target := f.draft, f.target
	f.submitting = true
	f.mu.Unlock()

	err := f.save(ctx, draft, target)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.err = err
		return false, err
	}
	f.close()
	return true, nil
}

func (f *Form[T, D]) save(ctx context.Context, draft D, target *T) error {
	if _, err := f.gate.Require(ctx); err != nil {
		return err
	}
	var err error
	if target != nil {
		_, err = f.list.Update(ctx, (*target).EntityID(), draft)
	} else {
		_, err = f.list.Create(ctx, draft)
	}
	return err
}

func (f *Form[T, D]) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form[T, D]) Draft() D {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Target is the entity being edited, nil in create mode.
func (f *Form[T, D]) Target() *T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target
}

func (f *Form[T, D]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Form[T, D]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}
