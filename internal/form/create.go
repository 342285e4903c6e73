package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/debemdeboas/postdeck/internal/model"
)

type CreateForm struct {
	mu    sync.Mutex
	state State
	draft model.NewDraft
}

func NewCreateForm() *CreateForm {
	return &CreateForm{}
}

// Open resets the draft to empty fields and opens the form.
func (f *CreateForm) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Open
	f.draft = model.NewDraft{}
}

// Cancel closes the form and discards the draft. Cancelling a closed form does nothing.
func (f *CreateForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Closed
	f.draft = model.NewDraft{}
}

func (f *CreateForm) SetTitle(title string) error {
	return f.Set(FieldTitle, title)
}

func (f *CreateForm) SetBody(body string) error {
	return f.Set(FieldBody, body)
}

// Set assigns one draft field by name.
func (f *CreateForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Open {
		return ErrFormClosed
	}
	switch field {
	case FieldTitle:
		f.draft.Title = value
	case FieldBody:
		f.draft.Body = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (f *CreateForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *CreateForm) Draft() model.NewDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit sends the draft to the server. On success the created post is appended to posts and
// the form closes with a reset draft. On failure the form stays open and nothing is appended.
func (f *CreateForm) Submit(ctx context.Context, gw Creator, posts Appender) (model.Post, error) {
	f.mu.Lock()
	if f.state != Open {
		f.mu.Unlock()
		return model.Post{}, ErrFormClosed
	}
	draft := f.draft
	f.mu.Unlock()

	post, err := gw.Create(ctx, draft)
	if err != nil {
		return model.Post{}, fmt.Errorf("error adding post: %w", err)
	}
	if err := posts.Append(post); err != nil {
		return model.Post{}, fmt.Errorf("error adding post: %w", err)
	}

	f.mu.Lock()
	f.state = Closed
	f.draft = model.NewDraft{}
	f.mu.Unlock()
	return post, nil
}
