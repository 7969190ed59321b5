package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
)

// RequireView lets the request through when the session's role may open any
// of the views.
func RequireView(views ...policy.View) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s, ok := CurrentSession(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthenticated(client.Unauthenticated()))
			return
		}

		for _, v := range views {
			if policy.CanView(s.Role(), v) {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("role %s may not open %v", s.Role(), views)))
	}
}

func RequireMutation(kind policy.Kind, action policy.Action) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s, ok := CurrentSession(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthenticated(client.Unauthenticated()))
			return
		}

		if !policy.CanMutate(s.Role(), kind, action) {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("role %s may not %s %s", s.Role(), action, kind)))
			return
		}
		ctx.Next()
	}
}
