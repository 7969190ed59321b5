package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/session"
)

const storeKey = "session_store"

type SessionLoader struct {
	persisters session.PersisterFactory
	auth       session.Authenticator
}

func NewSessionLoader(persisters session.PersisterFactory, auth session.Authenticator) *SessionLoader {
	return &SessionLoader{
		persisters: persisters,
		auth:       auth,
	}
}

// Load restores the request's session store from the persister.
func (l *SessionLoader) Load() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		store := session.NewStore(ctx.Request.Context(), l.persisters(ctx.Writer, ctx.Request), l.auth)
		ctx.Set(storeKey, store)
		ctx.Next()
	}
}

// RequireSession rejects requests without a live session.
func RequireSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentSession(ctx); !ok {
			response.RenderErr(ctx, response.ErrUnauthenticated(client.Unauthenticated()))
			return
		}
		ctx.Next()
	}
}

// Store returns the request's session store. It panics when Load was not mounted.
func Store(ctx *gin.Context) *session.Store {
	return ctx.MustGet(storeKey).(*session.Store)
}

func CurrentSession(ctx *gin.Context) (domain.Session, bool) {
	v, ok := ctx.Get(storeKey)
	if !ok {
		return domain.Session{}, false
	}

	return v.(*session.Store).Current()
}
