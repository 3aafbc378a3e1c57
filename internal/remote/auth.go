/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package remote

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const pinCookieName = "projecton_remote"

// RequirePIN gates the control pages behind the configured PIN. A valid
// session cookie skips the prompt.
func (s *Server) RequirePIN(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.validSession(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

func (s *Server) validSession(r *http.Request) bool {
	cookie, err := r.Cookie(pinCookieName)
	if err != nil {
		return false
	}
	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSigningKey), nil
	})
	return err == nil && token.Valid
}

// LoginPage serves the PIN prompt.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", s.pageData("ProjectOn Remote"))
}

// LoginSubmit checks the submitted PIN and issues a session cookie.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	pin := r.FormValue("pin")
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.cfg.RemotePIN)) != 1 {
		s.logger.Warn().Str("from", r.RemoteAddr).Msg("remote login failed")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   "remote",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSigningKey))
	if err != nil {
		s.logger.Error().Err(err).Msg("sign session token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     pinCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((12 * time.Hour).Seconds()),
	})
	http.Redirect(w, r, "/remote", http.StatusFound)
}
