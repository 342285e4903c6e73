package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/debemdeboas/postdeck/internal/model"
)

type EditForm struct {
	mu    sync.Mutex
	state State
	draft model.EditDraft
}

func NewEditForm() *EditForm {
	return &EditForm{}
}

// Open seeds the draft with a copy of post and opens the form. Later field changes never touch
// the collection entry until a submit succeeds.
func (f *EditForm) Open(post model.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Open
	f.draft = model.EditDraftFrom(post)
}

func (f *EditForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Closed
	f.draft = model.EditDraft{}
}

func (f *EditForm) SetTitle(title string) error {
	return f.Set(FieldTitle, title)
}

func (f *EditForm) SetBody(body string) error {
	return f.Set(FieldBody, body)
}

func (f *EditForm) Set(field, value string) error {
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

func (f *EditForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *EditForm) Draft() model.EditDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit sends the draft as a full replacement. On success the collection entry is replaced
// with the draft itself (not the server echo) and the form closes. On failure the entry and the
// form are left as they were.
func (f *EditForm) Submit(ctx context.Context, gw Updater, posts Replacer) (model.Post, error) {
	f.mu.Lock()
	if f.state != Open {
		f.mu.Unlock()
		return model.Post{}, ErrFormClosed
	}
	draft := f.draft
	f.mu.Unlock()

	if _, err := gw.Update(ctx, draft.ID, draft); err != nil {
		return model.Post{}, fmt.Errorf("error updating post %d: %w", draft.ID, err)
	}

	post := draft.Post()
	if err := posts.ReplaceByID(post); err != nil {
		return model.Post{}, fmt.Errorf("error updating post %d: %w", draft.ID, err)
	}

	f.mu.Lock()
	// A reopen for another post while the call was in flight wins.
	if f.draft.ID == draft.ID {
		f.state = Closed
		f.draft = model.EditDraft{}
	}
	f.mu.Unlock()
	return post, nil
}
