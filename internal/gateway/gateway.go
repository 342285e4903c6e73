// Package gateway talks to the remote posts REST resource. Every call is a single attempt and
// every failure surfaces as a *TransportError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
)

var gatewayLogger zerolog.Logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	gatewayLogger = l
}

// Gateway is the set of operations the client performs against the posts resource.
type Gateway interface {
	List(ctx context.Context) ([]model.Post, error)
	Create(ctx context.Context, draft model.NewDraft) (model.Post, error)
	Update(ctx context.Context, id model.PostID, draft model.EditDraft) (model.Post, error)
	Remove(ctx context.Context, id model.PostID) error
}

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpRemove = "remove"
)

// Upstream error bodies are truncated to this many bytes.
const maxErrorBody = 4 << 10

type HTTPGateway struct { // implements Gateway
	baseURL   string
	client    *http.Client
	userAgent string
}

type Option func(*HTTPGateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) {
		g.client = c
	}
}

// WithTimeout sets a client-side timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		if d > 0 {
			client := *g.client
			client.Timeout = d
			g.client = &client
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(g *HTTPGateway) {
		g.userAgent = ua
	}
}

func New(baseURL string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the endpoint every request is resolved against.
func (g *HTTPGateway) BaseURL() string {
	return g.baseURL
}

func (g *HTTPGateway) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := g.do(ctx, OpList, http.MethodGet, config.UpstreamPostsPath, nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (g *HTTPGateway) Create(ctx context.Context, draft model.NewDraft) (model.Post, error) {
	var post model.Post
	err := g.do(ctx, OpCreate, http.MethodPost, config.UpstreamPostsPath, draft, &post)
	return post, err
}

func (g *HTTPGateway) Update(ctx context.Context, id model.PostID, draft model.EditDraft) (model.Post, error) {
	var post model.Post
	err := g.do(ctx, OpUpdate, http.MethodPut, postPath(id), draft, &post)
	return post, err
}

func (g *HTTPGateway) Remove(ctx context.Context, id model.PostID) error {
	return g.do(ctx, OpRemove, http.MethodDelete, postPath(id), nil, nil)
}

func postPath(id model.PostID) string {
	return config.UpstreamPostsPath + "/" + id.String()
}

// do sends one request. in is encoded as the JSON body when non-nil; out receives the decoded
// response body when non-nil.
func (g *HTTPGateway) do(ctx context.Context, op, method, path string, in, out any) error {
	url := g.baseURL + path
	fail := func(status int, body string, err error) *TransportError {
		return &TransportError{Op: op, Method: method, URL: url, Status: status, Body: body, Err: err}
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fail(0, "", fmt.Errorf("error encoding request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fail(0, "", fmt.Errorf("error building request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", config.CTypeJSON)
	req.Header.Set(config.HRequestID, requestID)
	if in != nil {
		req.Header.Set(config.HCType, config.CTypeJSON+"; charset=UTF-8")
	}
	if g.userAgent != "" {
		req.Header.Set(config.HUserAgent, g.userAgent)
	}

	log := gatewayLogger.With().
		Str("op", op).
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		te := fail(0, "", fmt.Errorf("error sending request: %w", err))
		recordRequest(op, 0, time.Since(start), te)
		log.Error().Err(err).Msg("Upstream request failed")
		return te
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		te := fail(resp.StatusCode, strings.TrimSpace(string(errBody)), nil)
		recordRequest(op, resp.StatusCode, time.Since(start), te)
		log.Error().Int("status", resp.StatusCode).Msg("Upstream returned an error status")
		return te
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			te := fail(resp.StatusCode, "", fmt.Errorf("error decoding response: %w", err))
			recordRequest(op, resp.StatusCode, time.Since(start), te)
			log.Error().Err(err).Int("status", resp.StatusCode).Msg("Upstream response could not be decoded")
			return te
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	recordRequest(op, resp.StatusCode, time.Since(start), nil)
	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Upstream request completed")
	return nil
}
