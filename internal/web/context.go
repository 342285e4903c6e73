package web

import (
	"context"

	"github.com/debemdeboas/postdeck/internal/session"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ContextKeySession ContextKey = "session"

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, s)
}

func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(ContextKeySession).(*session.Session)
	return s, ok
}
