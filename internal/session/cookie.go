package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie set on login.
const CookieName = "bp_session"

// sign appends an HMAC-SHA256 tag so the cookie value is
// "token:hexsignature".
func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(token))
	return token + ":" + hex.EncodeToString(mac.Sum(nil))
}

// verify splits and checks a signed value, returning the bare token.
func (m *Manager) verify(value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ":")
	if !ok || token == "" {
		return "", false
	}
	want, err := hex.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(token))
	if !hmac.Equal(mac.Sum(nil), want) {
		return "", false
	}
	return token, true
}

// SetCookie attaches the session cookie to a response.
func (m *Manager) SetCookie(w http.ResponseWriter, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadCookie extracts the raw session cookie value from a request.
func ReadCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
