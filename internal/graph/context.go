// Package graph реализует GraphQL API избранного, активностей и авторизации.
package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/service"
)

type ctxKey int

const (
	viewerKey ctxKey = iota
	sessionKey
	clientIPKey
)

// Session управляет cookie с токеном в рамках одного HTTP запроса.
type Session interface {
	SetAuthToken(token *service.AccessToken)
	ClearAuthToken()
}

// WithViewer сохраняет id аутентифицированного пользователя.
func WithViewer(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, viewerKey, userID)
}

// ViewerFrom возвращает id пользователя или uuid.Nil для анонимного запроса.
func ViewerFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(viewerKey).(uuid.UUID)
	return id
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func sessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey).(Session)
	return s
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP возвращает адрес клиента, сохранённый HTTP слоем.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
