package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"

	"vicharcha/internal/domain"
	"vicharcha/utils/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenCookie is the session cookie carrying the signed user token.
const TokenCookie = "token"

var errNoToken = errors.New("no token")

type AuthMiddleware struct {
	jwtSecret  string
	cronSecret string
}

func NewAuthMiddleware(jwtSecret, cronSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret, cronSecret: cronSecret}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if errors.Is(err, errNoToken) {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.authenticate(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCron admits requests carrying "Authorization: Bearer <cron secret>".
// With no secret configured every request is rejected.
func (m *AuthMiddleware) RequireCron(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok || m.cronSecret == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(m.cronSecret)) != 1 {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (domain.User, error) {
	var raw string
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		raw = cookie.Value
	} else if token, ok := bearer(r); ok {
		raw = token
	} else {
		return domain.User{}, errNoToken
	}
	return m.validateToken(raw)
}

func (m *AuthMiddleware) validateToken(tokenString string) (domain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.jwtSecret), nil
	})
	if err != nil {
		return domain.User{}, err
	}
	if !token.Valid {
		return domain.User{}, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.User{}, jwt.ErrInvalidKey
	}

	userID := stringClaim(claims, "userId")
	if userID == "" {
		userID = stringClaim(claims, "sub")
	}
	if userID == "" {
		return domain.User{}, jwt.ErrInvalidKey
	}

	return domain.User{
		ID:       userID,
		Username: stringClaim(claims, "username"),
		Image:    stringClaim(claims, "image"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func bearer(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func GetUserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(domain.User)
	return user, ok
}
