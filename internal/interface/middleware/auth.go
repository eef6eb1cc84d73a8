package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// UserResolver turns a bearer token into the user it was issued for.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*entity.User, error)
}

// Auth requires an `Authorization: Bearer <token>` header that resolves to an
// existing user. The user and its id are stored in the Gin context. Resolver
// errors other than apperror.KindAuth are logged and answered with 500.
func Auth(users UserResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Not authorized, no token", nil)
			c.Abort()
			return
		}
		u, err := users.ResolveUser(c.Request.Context(), token)
		if err != nil {
			var ae *apperror.Error
			if errors.As(err, &ae) && ae.Kind == apperror.KindAuth {
				response.Error(c, http.StatusUnauthorized, ae.Message, nil)
				c.Abort()
				return
			}
			if logger != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"request_id": c.GetString("request_id"),
					"path":       c.Request.URL.Path,
				}).Error("resolve user failed")
			}
			response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil on unauthenticated routes.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
