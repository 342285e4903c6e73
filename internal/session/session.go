// Package session holds the client state of one browser: its post collection, pager and the
// two draft forms. Every user intent maps to exactly one method.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/form"
	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/pagination"
	"github.com/debemdeboas/postdeck/internal/store"
	"github.com/debemdeboas/postdeck/internal/view"
)

var sessionLogger zerolog.Logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	sessionLogger = l
}

// ErrNotEditing is returned when an edit submit names a post other than the one being edited.
var ErrNotEditing = errors.New("post is not being edited")

type Session struct {
	ID string

	gw     gateway.Gateway
	posts  *store.Store
	pager  *pagination.Pager
	create *form.CreateForm
	edit   *form.EditForm

	// loadMu serializes the initial list call only.
	loadMu sync.Mutex
	loaded bool

	// lastSeen is the unix-nano time of the last request that resolved to this session.
	lastSeen atomic.Int64
}

func New(id string, gw gateway.Gateway, pageSize int) (*Session, error) {
	pager, err := pagination.NewPager(pageSize)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:     id,
		gw:     gw,
		posts:  store.New(),
		pager:  pager,
		create: form.NewCreateForm(),
		edit:   form.NewEditForm(),
	}, nil
}

// EnsureLoaded fetches the collection once. A failed fetch is retried on the next call.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return nil
	}
	return s.reload(ctx)
}

// Reload fetches the list again and replaces the collection with it.
func (s *Session) Reload(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.reload(ctx)
}

func (s *Session) reload(ctx context.Context) error {
	posts, err := s.gw.List(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("error loading posts: %w", err)
	}
	if err := s.posts.ReplaceAll(posts); err != nil {
		return fmt.Errorf("error loading posts: %w", err)
	}
	s.loaded = true
	sessionLogger.Debug().Str("session", s.ID).Int("count", len(posts)).Msg("Loaded posts")
	return nil
}

func (s *Session) Loaded() bool {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loaded
}

func (s *Session) OpenCreate() {
	s.create.Open()
}

func (s *Session) CancelCreate() {
	s.create.Cancel()
}

func (s *Session) SetCreateDraft(title, body string) error {
	if err := s.create.SetTitle(title); err != nil {
		return err
	}
	return s.create.SetBody(body)
}

func (s *Session) SubmitCreate(ctx context.Context) (model.Post, error) {
	post, err := s.create.Submit(context.WithoutCancel(ctx), s.gw, s.posts)
	if err != nil {
		return model.Post{}, err
	}
	sessionLogger.Info().Str("session", s.ID).Stringer("post_id", post.ID).Msg("Created post")
	return post, nil
}

// OpenEdit seeds the edit form from the stored post with the given id.
func (s *Session) OpenEdit(id model.PostID) error {
	post, ok := s.posts.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", store.ErrPostNotFound, id)
	}
	s.edit.Open(post)
	return nil
}

func (s *Session) CancelEdit() {
	s.edit.Cancel()
}

func (s *Session) SetEditDraft(title, body string) error {
	if err := s.edit.SetTitle(title); err != nil {
		return err
	}
	return s.edit.SetBody(body)
}

// SubmitEdit submits the open edit form. id must match the post being edited.
func (s *Session) SubmitEdit(ctx context.Context, id model.PostID) (model.Post, error) {
	if s.edit.State() != form.Open {
		return model.Post{}, form.ErrFormClosed
	}
	if editing := s.edit.Draft().ID; editing != id {
		return model.Post{}, fmt.Errorf("%w: %d (editing %d)", ErrNotEditing, id, editing)
	}
	post, err := s.edit.Submit(context.WithoutCancel(ctx), s.gw, s.posts)
	if err != nil {
		return model.Post{}, err
	}
	sessionLogger.Info().Str("session", s.ID).Stringer("post_id", post.ID).Msg("Updated post")
	return post, nil
}

// Delete removes the post remotely and then locally. Deleting an id that is not in the
// collection still calls the server and leaves the collection unchanged.
func (s *Session) Delete(ctx context.Context, id model.PostID) error {
	if err := s.gw.Remove(context.WithoutCancel(ctx), id); err != nil {
		return fmt.Errorf("error deleting post %d: %w", id, err)
	}
	removed := s.posts.RemoveByID(id)
	sessionLogger.Info().Str("session", s.ID).Stringer("post_id", id).Bool("removed", removed).Msg("Deleted post")
	return nil
}

// GotoPage requests page n and returns the page now shown.
func (s *Session) GotoPage(n int) int {
	return s.pager.Goto(n, s.posts.Len())
}

// View snapshots everything the page renders.
func (s *Session) View() view.State {
	posts := s.posts.Posts()
	version := s.posts.Version()

	create := s.create.Draft()
	edit := s.edit.Draft()

	return view.State{
		Page: pagination.NewPage(posts, s.pager.Size(), s.pager.Current(len(posts))),
		Create: view.Modal{
			Open:  s.create.State() == form.Open,
			Title: create.Title,
			Body:  create.Body,
		},
		Edit: view.EditModal{
			Modal: view.Modal{
				Open:  s.edit.State() == form.Open,
				Title: edit.Title,
				Body:  edit.Body,
			},
			ID: edit.ID,
		},
		Version: version,
	}
}

// Version is the current collection version.
func (s *Session) Version() uint64 {
	return s.posts.Version()
}

// LastSeen is when the session was last resolved by a request.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastSeen()) > timeout
}

func (s *Session) setChangeNotifier(fn func(version uint64)) {
	s.posts.SetChangeNotifier(fn)
}
