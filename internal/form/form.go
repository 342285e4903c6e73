// Package form implements the create and edit draft buffers behind the post modals.
//
// Both forms are small state machines: closed -> open -> closed, where the last transition
// happens on a successful submit or on cancel. A failed submit keeps the form open with its
// draft intact. No lock is held while the remote call is in flight.
package form

import (
	"context"
	"errors"

	"github.com/debemdeboas/postdeck/internal/model"
)

var ErrFormClosed = errors.New("form is not open")

type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Field names accepted by Set.
const (
	FieldTitle = "title"
	FieldBody  = "body"
)

var ErrUnknownField = errors.New("unknown form field")

type Creator interface {
	Create(ctx context.Context, draft model.NewDraft) (model.Post, error)
}

type Updater interface {
	Update(ctx context.Context, id model.PostID, draft model.EditDraft) (model.Post, error)
}

// Appender and Replacer are the store operations a successful submit applies.
type Appender interface {
	Append(post model.Post) error
}

type Replacer interface {
	ReplaceByID(post model.Post) error
}
