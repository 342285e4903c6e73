// Package gatewaytest provides an in-memory Gateway and an httptest posts API for tests.
package gatewaytest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/model"
)

// Seed returns n posts with ids 1..n.
func Seed(n int) []model.Post {
	posts := make([]model.Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, model.Post{
			ID:     model.PostID(i),
			UserID: (i-1)/10 + 1,
			Title:  fmt.Sprintf("title %d", i),
			Body:   fmt.Sprintf("body %d", i),
		})
	}
	return posts
}

// Fake is an in-memory gateway.Gateway. Operations listed in Fail return a *gateway.TransportError.
type Fake struct {
	mu     sync.Mutex
	posts  []model.Post
	nextID model.PostID
	fail   map[string]int
	calls  []string
}

func NewFake(posts []model.Post) *Fake {
	f := &Fake{
		posts:  slices.Clone(posts),
		nextID: model.PostID(len(posts) + 1),
		fail:   make(map[string]int),
	}
	return f
}

// Fail makes every later call to op fail with the given upstream status.
func (f *Fake) Fail(op string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = status
}

// Recover clears the failure set by Fail.
func (f *Fake) Recover(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fail, op)
}

// SetNextID fixes the id assigned to the next created post.
func (f *Fake) SetNextID(id model.PostID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = id
}

// Calls returns the operations invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *Fake) begin(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if status, ok := f.fail[op]; ok {
		return &gateway.TransportError{Op: op, Status: status, Err: errors.New("injected failure")}
	}
	return nil
}

func (f *Fake) List(ctx context.Context) ([]model.Post, error) {
	if err := f.begin(gateway.OpList); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.posts), nil
}

func (f *Fake) Create(ctx context.Context, draft model.NewDraft) (model.Post, error) {
	if err := f.begin(gateway.OpCreate); err != nil {
		return model.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	post := model.Post{ID: f.nextID, Title: draft.Title, Body: draft.Body}
	f.nextID++
	f.posts = append(f.posts, post)
	return post, nil
}

func (f *Fake) Update(ctx context.Context, id model.PostID, draft model.EditDraft) (model.Post, error) {
	if err := f.begin(gateway.OpUpdate); err != nil {
		return model.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	post := draft.Post()
	post.ID = id
	if i := slices.IndexFunc(f.posts, func(p model.Post) bool { return p.ID == id }); i >= 0 {
		f.posts[i] = post
	}
	return post, nil
}

func (f *Fake) Remove(ctx context.Context, id model.PostID) error {
	if err := f.begin(gateway.OpRemove); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = slices.DeleteFunc(f.posts, func(p model.Post) bool { return p.ID == id })
	return nil
}

// Server is an httptest posts API that behaves like jsonplaceholder: creates always answer
// with the next id, updates of unknown ids fail with 500, deletes always succeed.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	posts  []model.Post
	nextID model.PostID
	fail   map[string]int
	hits   map[string]int
}

func NewServer(t testing.TB, posts []model.Post) *Server {
	s := &Server{
		posts:  slices.Clone(posts),
		nextID: model.PostID(len(posts) + 1),
		fail:   make(map[string]int),
		hits:   make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", s.list)
	mux.HandleFunc("POST /posts", s.create)
	mux.HandleFunc("PUT /posts/{id}", s.update)
	mux.HandleFunc("DELETE /posts/{id}", s.remove)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method]++
		status, failing := s.fail[r.Method]
		s.mu.Unlock()

		if failing {
			http.Error(w, "injected failure", status)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Fail makes every later request with the given HTTP method answer with status.
func (s *Server) Fail(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = status
}

// SetNextID sets the id assigned to the next created post.
func (s *Server) SetNextID(id model.PostID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

// Hits returns how many requests with the given method reached the server.
func (s *Server) Hits(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method]
}

func (s *Server) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	posts := slices.Clone(s.posts)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var draft model.NewDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	post := model.Post{ID: s.nextID, Title: draft.Title, Body: draft.Body}
	s.nextID++
	s.posts = append(s.posts, post)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePostID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var draft model.EditDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.posts, func(p model.Post) bool { return p.ID == id })
	if i < 0 {
		http.Error(w, "TypeError: Cannot read properties of undefined (reading 'id')", http.StatusInternalServerError)
		return
	}
	post := draft.Post()
	post.ID = id
	s.posts[i] = post
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParsePostID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.posts = slices.DeleteFunc(s.posts, func(p model.Post) bool { return p.ID == id })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, struct{}{})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
