// Package store holds the authoritative, ordered collection of posts known to a client.
//
// The collection only changes through ReplaceAll, Append, ReplaceByID and RemoveByID. Each
// operation either applies completely or leaves the collection untouched, and post ids stay
// unique at all times.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/debemdeboas/postdeck/internal/model"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicatePost = errors.New("duplicate post id")
)

type Store struct {
	mu    sync.RWMutex
	posts []model.Post

	// version increases on every applied mutation.
	version  uint64
	onChange func(version uint64)
}

func New() *Store {
	return &Store{posts: []model.Post{}}
}

// SetChangeNotifier sets a function called after every applied mutation.
func (s *Store) SetChangeNotifier(notifier func(version uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = notifier
}

// ReplaceAll sets the collection verbatim.
func (s *Store) ReplaceAll(posts []model.Post) error {
	seen := make(map[model.PostID]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicatePost, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	s.mu.Lock()
	s.posts = slices.Clone(posts)
	if s.posts == nil {
		s.posts = []model.Post{}
	}
	notify := s.bump()
	s.mu.Unlock()

	notify()
	return nil
}

// Append adds post at the end of the collection.
func (s *Store) Append(post model.Post) error {
	s.mu.Lock()
	if s.indexOf(post.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicatePost, post.ID)
	}
	s.posts = append(s.posts, post)
	notify := s.bump()
	s.mu.Unlock()

	notify()
	return nil
}

// ReplaceByID overwrites, in place, the entry whose id matches post.ID.
func (s *Store) ReplaceByID(post model.Post) error {
	s.mu.Lock()
	i := s.indexOf(post.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrPostNotFound, post.ID)
	}
	s.posts[i] = post
	notify := s.bump()
	s.mu.Unlock()

	notify()
	return nil
}

// RemoveByID deletes the entry with the given id. It reports whether an entry was removed;
// removing an absent id is a no-op.
func (s *Store) RemoveByID(id model.PostID) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.posts = slices.Delete(s.posts, i, i+1)
	notify := s.bump()
	s.mu.Unlock()

	notify()
	return true
}

// Posts returns a copy of the collection in order.
func (s *Store) Posts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

func (s *Store) Get(id model.PostID) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.posts[i], true
	}
	return model.Post{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) indexOf(id model.PostID) int {
	return slices.IndexFunc(s.posts, func(p model.Post) bool { return p.ID == id })
}

// bump must be called with the write lock held. The returned func runs the notifier and must
// be called after unlocking.
func (s *Store) bump() func() {
	s.version++
	version, notifier := s.version, s.onChange
	return func() {
		if notifier != nil {
			notifier(version)
		}
	}
}
