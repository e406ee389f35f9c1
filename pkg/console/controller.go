package console

import (
	"context"
	"errors"
	"sync"

	"palika-console/pkg/logger"
	"palika-console/pkg/validation"
)

// Notifier receives the transient success/error messages a screen
// shows after an operation.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// LogNotifier writes notifications to a structured logger. It is the
// default when a screen supplies no notifier of its own.
type LogNotifier struct {
	Log *logger.Logger
}

func (n *LogNotifier) Success(msg string) { n.Log.Info().Msg(msg) }
func (n *LogNotifier) Error(msg string)   { n.Log.Warn().Msg(msg) }

// FormMode distinguishes the create and edit form states.
type FormMode int

const (
	ModeClosed FormMode = iota
	ModeCreate
	ModeEdit
)

// ErrNotPermitted is returned when the signed-in user may not perform
// the attempted operation on the entity.
var ErrNotPermitted = errors.New("operation not permitted for this user")

// ErrDeleteUnsupported is returned when a resource has no delete
// endpoint (reports and budgets are never deleted from the console).
var ErrDeleteUnsupported = errors.New("resource does not support deletion")

// ErrConfirmationDeclined is returned when the user cancels the
// delete confirmation prompt.
var ErrConfirmationDeclined = errors.New("confirmation declined")

// ResourceAPI binds a controller to one resource's endpoints. Delete
// may be nil for resources without a delete operation.
type ResourceAPI[T any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, form validation.Values) error
	Update func(ctx context.Context, id uint, form validation.Values) error
	Delete func(ctx context.Context, id uint) error
}

// ControllerConfig assembles one resource screen.
type ControllerConfig[T any] struct {
	Name     string
	Schema   validation.Schema
	API      ResourceAPI[T]
	ID       func(T) uint
	Form     func(T) validation.Values // entity -> form values for editing
	Defaults func() validation.Values  // initial values for the create form

	// CanModify gates edit/delete per entity; nil allows everyone.
	// This mirrors the disabled buttons in the UI, the server enforces
	// the same rule independently.
	CanModify func(T) bool

	// BeforeRemove runs before the confirmation prompt; a non-nil
	// error aborts the removal with no network call.
	BeforeRemove func(id uint) error

	Notifier  Notifier
	Confirmer Confirmer
}

// ListController owns the fetch-list / open-form / validate / submit /
// re-fetch cycle shared by every resource screen. After a successful
// create or update it always re-runs Load instead of patching the
// local list, trading a request for a fresh server read.
type ListController[T any] struct {
	cfg ControllerConfig[T]

	mu          sync.Mutex
	items       []T
	loadSeq     uint64
	mode        FormMode
	editingID   uint
	form        validation.Values
	touched     map[string]bool
	fieldErrors validation.Errors
}

// NewListController creates a controller for one resource screen.
func NewListController[T any](cfg ControllerConfig[T]) *ListController[T] {
	if cfg.Defaults == nil {
		cfg.Defaults = func() validation.Values { return validation.Values{} }
	}
	if cfg.Notifier == nil {
		cfg.Notifier = &LogNotifier{Log: logger.New(logger.Config{Env: "dev"})}
	}
	if cfg.Confirmer == nil {
		// Destructive actions need an explicit confirmer; without one
		// every prompt is declined
		cfg.Confirmer = ConfirmerFunc(func(string) bool { return false })
	}
	return &ListController[T]{
		cfg:     cfg,
		form:    validation.Values{},
		touched: map[string]bool{},
	}
}

// Items returns the current list snapshot.
func (c *ListController[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Mode returns the current form mode.
func (c *ListController[T]) Mode() FormMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// FieldErrors returns the per-field messages from the last validation.
func (c *ListController[T]) FieldErrors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// Load fetches the full collection and replaces the local list. On
// failure the prior list stays untouched and the error is surfaced as
// a notification. A response that arrives after a newer Load started
// is dropped rather than clobbering fresher data.
func (c *ListController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	items, err := c.cfg.API.List(ctx)
	if err != nil {
		c.cfg.Notifier.Error(errorMessage(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		return nil // Stale response, a newer load owns the list now
	}
	c.items = items
	return nil
}

// OpenCreate resets the form to defaults and opens it in create mode.
func (c *ListController[T]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeCreate
	c.editingID = 0
	c.form = c.cfg.Defaults()
	c.touched = map[string]bool{}
	c.fieldErrors = nil
}

// OpenEdit populates the form from the entity and opens it in edit
// mode. It fails with ErrNotPermitted when the signed-in user may not
// modify the entity, so a programmatic call cannot bypass the
// disabled button.
func (c *ListController[T]) OpenEdit(entity T) error {
	if c.cfg.CanModify != nil && !c.cfg.CanModify(entity) {
		c.cfg.Notifier.Error("You don't have permission to edit this " + c.cfg.Name)
		return ErrNotPermitted
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeEdit
	c.editingID = c.cfg.ID(entity)
	c.form = c.cfg.Form(entity)
	c.touched = map[string]bool{}
	c.fieldErrors = nil
	return nil
}

// CloseForm abandons the open form.
func (c *ListController[T]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeClosed
	c.editingID = 0
	c.fieldErrors = nil
}

// SetField records a field change, marks it touched and re-validates
// just that field, mirroring on-change validation in the form.
func (c *ListController[T]) SetField(name string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form[name] = value
	c.touched[name] = true

	msg := c.cfg.Schema.ValidateField(c.form, name)
	if c.fieldErrors == nil {
		c.fieldErrors = validation.Errors{}
	}
	if msg == "" {
		delete(c.fieldErrors, name)
	} else {
		c.fieldErrors[name] = msg
	}
}

// Submit validates the whole form and, if it passes, calls the create
// or update endpoint depending on the mode. Invalid forms never reach
// the network. On success the form closes and the list reloads; on
// failure the form stays open with the error surfaced.
func (c *ListController[T]) Submit(ctx context.Context) error {
	c.mu.Lock()
	mode := c.mode
	editingID := c.editingID
	form := validation.Values{}
	for k, v := range c.form {
		form[k] = v
	}
	c.mu.Unlock()

	// 1. Full validation gates the network call
	if errs := c.cfg.Schema.Validate(form); errs != nil {
		c.mu.Lock()
		c.fieldErrors = errs
		c.mu.Unlock()
		return errs
	}

	// 2. Create or update by mode
	var err error
	switch mode {
	case ModeCreate:
		err = c.cfg.API.Create(ctx, form)
	case ModeEdit:
		err = c.cfg.API.Update(ctx, editingID, form)
	default:
		return errors.New("no form is open")
	}
	if err != nil {
		c.cfg.Notifier.Error(errorMessage(err))
		return err
	}

	// 3. Close, notify, and take a fresh server read
	c.CloseForm()
	c.cfg.Notifier.Success(c.cfg.Name + " saved")
	return c.Load(ctx)
}

// Remove deletes an entity after interactive confirmation. The
// BeforeRemove hook can short-circuit locally (the Users screen blocks
// self-deletion here); declining the prompt aborts with no call.
func (c *ListController[T]) Remove(ctx context.Context, id uint) error {
	if c.cfg.API.Delete == nil {
		return ErrDeleteUnsupported
	}

	// 1. Local guard before anything else
	if c.cfg.BeforeRemove != nil {
		if err := c.cfg.BeforeRemove(id); err != nil {
			c.cfg.Notifier.Error(err.Error())
			return err
		}
	}

	// 2. The user must confirm the destructive action
	if !c.cfg.Confirmer.Confirm("Delete this " + c.cfg.Name + "?") {
		return ErrConfirmationDeclined
	}

	// 3. Delete and reload
	if err := c.cfg.API.Delete(ctx, id); err != nil {
		c.cfg.Notifier.Error(errorMessage(err))
		return err
	}

	c.cfg.Notifier.Success(c.cfg.Name + " deleted")
	return c.Load(ctx)
}
