package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iamasit07/gomoku/backend/internal/config"
)

const AuthCookieName = "guest_token"

func SetAuthCookie(w http.ResponseWriter, token string) {
	cfg := config.AppConfig

	cookie := &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.GuestTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
	}

	// SameSite=None is only accepted on secure cookies
	if cfg.SecureCookies {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", errors.New("auth cookie not found")
	}
	if cookie.Value == "" {
		return "", errors.New("auth cookie is empty")
	}
	return cookie.Value, nil
}

// GetTokenFromRequest prefers the cookie and falls back to the
// Authorization header.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if token, err := GetTokenFromCookie(r); err == nil {
		return token, nil
	}

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return "", errors.New("no auth token found in cookie or header")
}
