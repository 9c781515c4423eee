// internal/httpserver/session.go
//
// Session tokens: an HS256 JWT carrying the game session ID, delivered as an
// HttpOnly cookie and also accepted as a bearer token.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "numguess_session"

var errNoToken = errors.New("no session token")

type ctxSessionKey struct{}

// signSession creates a token for session id valid for ttl.
func (s *Server) signSession(id string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": id,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.SessionSecret))
	return ss, exp, err
}

// parseSession verifies tok and returns the session ID it carries.
func (s *Server) parseSession(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	id, _ := claims["gid"].(string)
	if id == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return id, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the
// session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// sessionTokenHeader carries the re-issued token for bearer clients.
const sessionTokenHeader = "X-Session-Token"

// requireSession resolves the session ID into the request context or 401s.
// A valid token is re-issued with a fresh expiry so the token lives as long
// as the session stays active.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"no_session"}`, http.StatusUnauthorized)
			return
		}
		id, err := s.parseSession(tok)
		if err != nil {
			http.Error(w, `{"error":"invalid_session"}`, http.StatusUnauthorized)
			return
		}
		if fresh, exp, err := s.signSession(id, time.Now()); err == nil {
			s.setSessionCookie(w, fresh, exp)
			w.Header().Set(sessionTokenHeader, fresh)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, id)))
	})
}

func sessionID(ctx context.Context) (string, error) {
	id, _ := ctx.Value(ctxSessionKey{}).(string)
	if id == "" {
		return "", errNoToken
	}
	return id, nil
}
