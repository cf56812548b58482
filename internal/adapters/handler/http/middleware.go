package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

// UserIDKey holds the authenticated caller's uuid in the request context.
const UserIDKey contextKey = "userID"

// Identity verifies the caller's access token. Authentication itself (issuing
// tokens) is an external concern; this middleware only consumes the identity.
type Identity struct {
	secret []byte
}

func NewIdentity(secret []byte) *Identity {
	return &Identity{secret: secret}
}

// Required rejects requests without a valid identity with 401.
func (m *Identity) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.userID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, userID)))
	})
}

// Optional lands the identity in the context when present and valid, and
// passes the request through otherwise.
func (m *Identity) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := m.userID(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Identity) userID(r *http.Request) (uuid.UUID, bool) {
	tokenStr := ""
	if cookie, err := r.Cookie("access_token"); err == nil {
		tokenStr = cookie.Value
	} else if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		tokenStr = strings.TrimPrefix(auth, "Bearer ")
	}
	if tokenStr == "" {
		return uuid.Nil, false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// callerID extracts the identity placed in the context by the middleware.
func callerID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
