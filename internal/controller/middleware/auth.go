package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lehuyba/InterviewAce/internal/dto"
	"github.com/lehuyba/InterviewAce/internal/model"
	"github.com/lehuyba/InterviewAce/internal/service"
)

const (
	// ContextUserID is the gin context key holding the authenticated user's ID.
	ContextUserID = "userID"
	// ContextUserRole is the gin context key holding the authenticated user's role.
	ContextUserRole = "userRole"
)

// RequireAuth validates the bearer token and stores the caller's identity
// on the request context.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}

		userID, role, err := auth.ParseToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		ctx.Set(ContextUserID, userID)
		ctx.Set(ContextUserRole, role)
		ctx.Next()
	}
}

// RequireAdmin gates a route group to admin users. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ContextUserRole) != model.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// CallerID returns the authenticated user's ID from the request context.
func CallerID(ctx *gin.Context) uint {
	id, _ := ctx.Get(ContextUserID)
	userID, _ := id.(uint)
	return userID
}

// CallerIsAdmin reports whether the request was made by an admin.
func CallerIsAdmin(ctx *gin.Context) bool {
	return ctx.GetString(ContextUserRole) == model.RoleAdmin
}
