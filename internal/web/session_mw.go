package web

import (
	"context"
	"net/http"
)

const cookieName = "ubermelon_session"

type ctxKey string

const sidKey ctxKey = "sid"

func sidFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey).(string)
	return sid
}

// WithSession resolves the session cookie to a live session id, creating a
// fresh session (and cookie) when the cookie is absent, expired, or does
// not verify.
func (s *Server) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""

		if c, err := r.Cookie(cookieName); err == nil {
			if id, err := s.Tokens.Parse(c.Value); err == nil && s.Sessions.Exists(id) {
				sid = id
			}
		}

		if sid == "" {
			sid = s.Sessions.Create()
			s.setSessionCookie(w, sid)
		}

		ctx := context.WithValue(r.Context(), sidKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) {
	tok, err := s.Tokens.New(sid, s.SessionTTL)
	if err != nil {
		// Signing only fails with a broken secret; the session still
		// works for this request, the cookie just will not stick.
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
