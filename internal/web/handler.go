// Package web is the presentation layer: it maps browser requests to session intents and
// renders the page from session state.
package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/cache"
	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/render"
	"github.com/debemdeboas/postdeck/internal/routes"
	"github.com/debemdeboas/postdeck/internal/session"
	"github.com/debemdeboas/postdeck/internal/sse"
	"github.com/debemdeboas/postdeck/internal/theme"
	"github.com/debemdeboas/postdeck/internal/util"
	"github.com/debemdeboas/postdeck/internal/view"
)

var webLogger zerolog.Logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	webLogger = l
}

type Handler struct {
	sessions *session.Registry
	renderer *view.Renderer
	clients  *sse.SSEClients
	static   fs.FS
}

// NewHandler wires change notifications of every session to its event streams. static may be
// nil when no assets are served.
func NewHandler(sessions *session.Registry, renderer *view.Renderer, clients *sse.SSEClients, static fs.FS) *Handler {
	h := &Handler{
		sessions: sessions,
		renderer: renderer,
		clients:  clients,
		static:   static,
	}
	sessions.SetChangeNotifier(func(id string, version uint64) {
		h.clients.Broadcast(id, strconv.FormatUint(version, 10))
	})
	sessions.SetEvictNotifier(func(_, remaining int) {
		activeSessions.Set(float64(remaining))
	})
	return h
}

// HashStatic records an ETag for every static asset.
func HashStatic(static fs.FS) error {
	return fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, `"`+util.ContentHash(data)+`"`)
		return nil
	})
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	if h.static != nil {
		mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(h.static))))
	}

	cfg := config.Current()
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
	}

	mux.HandleFunc(routes.IndexPath, h.withSession(h.serveIndex))
	mux.HandleFunc(routes.EventsPath, h.withSession(h.serveEvents))
	mux.HandleFunc(routes.ThemeToggle, h.serveThemeToggle)
	mux.HandleFunc(routes.Preview, h.servePreview)

	mux.HandleFunc(routes.OpenCreate, h.withSession(h.openCreate))
	mux.HandleFunc(routes.CancelCreate, h.withSession(h.cancelCreate))
	mux.HandleFunc(routes.SubmitCreate, h.withSession(h.submitCreate))

	mux.HandleFunc(routes.OpenEdit, h.withSession(h.openEdit))
	mux.HandleFunc(routes.CancelEdit, h.withSession(h.cancelEdit))
	mux.HandleFunc(routes.SubmitEdit, h.withSession(h.submitEdit))
	mux.HandleFunc(routes.SubmitEditPut, h.withSession(h.submitEdit))

	mux.HandleFunc(routes.DeletePost, h.withSession(h.deletePost))
	mux.HandleFunc(routes.DeletePostHTTP, h.withSession(h.deletePost))
	mux.HandleFunc(routes.ReloadPosts, h.withSession(h.reloadPosts))
}

// Wrap applies the middleware chain every response goes through.
func Wrap(mux http.Handler, gzip bool) (http.Handler, error) {
	var h http.Handler = mux
	if gzip {
		var err error
		if h, err = compress(h); err != nil {
			return nil, err
		}
	}
	return instrument(secureHeaders(cacheIt(h))), nil
}

func sessionFrom(r *http.Request) *session.Session {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		panic("web: handler registered without session middleware")
	}
	return s
}

// redirect answers a state-changing intent: htmx gets an Hx-Redirect header, everything else a
// 303 to the page.
func redirect(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(config.HHxRequest) != "" {
		w.Header().Set(config.HHxRedirect, routes.RootPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
}

func postID(w http.ResponseWriter, r *http.Request) (model.PostID, bool) {
	id, err := model.ParsePostID(r.PathValue("id"))
	if err != nil {
		http.Error(w, config.HTTPErrBadPostID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := s.EnsureLoaded(r.Context()); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Msg(config.ErrLoadingPosts)
	}

	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		s.GotoPage(n)
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, model.NewPageData(r), s.View()); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Msg(config.ErrRenderingPage)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	etag := `"` + util.ContentHash(buf.Bytes()) + `"`
	w.Header().Set(config.HETag, etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) openCreate(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).OpenCreate()
	redirect(w, r)
}

func (h *Handler) cancelCreate(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).CancelCreate()
	redirect(w, r)
}

func (h *Handler) submitCreate(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := s.SetCreateDraft(r.PostFormValue("title"), r.PostFormValue("body")); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Msg(config.ErrSettingDraft)
		redirect(w, r)
		return
	}
	if _, err := s.SubmitCreate(r.Context()); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Msg(config.ErrCreatingPost)
	}
	redirect(w, r)
}

func (h *Handler) openEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	s := sessionFrom(r)
	if err := s.OpenEdit(id); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Stringer("post_id", id).Msg(config.ErrOpeningEditor)
	}
	redirect(w, r)
}

func (h *Handler) cancelEdit(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).CancelEdit()
	redirect(w, r)
}

func (h *Handler) submitEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	s := sessionFrom(r)
	if err := s.SetEditDraft(r.PostFormValue("title"), r.PostFormValue("body")); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Stringer("post_id", id).Msg(config.ErrSettingDraft)
		redirect(w, r)
		return
	}
	if _, err := s.SubmitEdit(r.Context(), id); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Stringer("post_id", id).Msg(config.ErrUpdatingPost)
	}
	redirect(w, r)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	s := sessionFrom(r)
	if err := s.Delete(r.Context(), id); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Stringer("post_id", id).Msg(config.ErrDeletingPost)
	}
	redirect(w, r)
}

func (h *Handler) reloadPosts(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := s.Reload(r.Context()); err != nil {
		webLogger.Error().Err(err).Str("session", s.ID).Msg(config.ErrLoadingPosts)
	}
	redirect(w, r)
}

func (h *Handler) servePreview(w http.ResponseWriter, r *http.Request) {
	body := r.PostFormValue("body")
	if body == "" {
		body = "Start typing to see a preview here."
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.Preview(body, theme.GetSyntaxThemeFromRequest(r))))
}

func (h *Handler) serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.Toggle(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    newTheme,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	redirect(w, r)
}
