package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/jdl-league/constructor-system/models"
)

type contextKey string

const userContextKey contextKey = "user"

// Имена JWT claims, которые выдаёт провайдер аутентификации.
const (
	jwtClaimUserID = "uid"
	jwtClaimRole   = "role"
)

// Authenticator проверяет Bearer-токены и кладёт claims в контекст запроса.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "missing authorization header")
			return
		}
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			unauthorized(w, "authorization header must use the Bearer scheme")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole пропускает запрос только при одной из перечисленных ролей.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				unauthorized(w, "authentication required")
				return
			}
			for _, allowed := range roles {
				if allowed == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// RequireAdmin — сокращение для маршрутов, доступных только администратору.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}

func GetUserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context")
	}

	raw, ok := claims[jwtClaimUserID]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}
	userID, ok := raw.(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid %q claim in token", jwtClaimUserID)
	}
	return userID, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context")
	}

	raw, ok := claims[jwtClaimRole]
	if !ok {
		// Роль может отсутствовать у обычного пользователя.
		return models.RoleGeneral, nil
	}
	role, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid %q claim in token", jwtClaimRole)
	}
	return role, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, message, http.StatusUnauthorized)
}
