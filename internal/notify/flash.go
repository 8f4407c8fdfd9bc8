package notify

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// FlashCookie is the cookie carrying one notice across a full-page redirect.
const FlashCookie = "mochi_flash"

// Flash stores notices in a one-time cookie; the next page render reads and
// clears it. Only the latest notice is kept.
type Flash struct {
	w      http.ResponseWriter
	secure bool
}

// NewFlash returns a Flash writing to w.
func NewFlash(w http.ResponseWriter, secure bool) *Flash {
	return &Flash{w: w, secure: secure}
}

func (f *Flash) Notify(n Notice) {
	if f == nil || f.w == nil {
		return
	}
	n, ok := normalize(n)
	if !ok {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(f.w, &http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadFlash reads and clears the flash cookie.
func ReadFlash(w http.ResponseWriter, r *http.Request, secure bool) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(FlashCookie)
	if err != nil || cookie == nil {
		return Notice{}, false
	}
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     FlashCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
	return decodeFlash(cookie.Value)
}

func decodeFlash(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, false
	}
	var n Notice
	if err := json.Unmarshal(decoded, &n); err != nil {
		return Notice{}, false
	}
	return normalize(n)
}

func normalize(n Notice) (Notice, bool) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return Notice{}, false
	}
	n.Level = Level(strings.ToLower(strings.TrimSpace(string(n.Level))))
	switch n.Level {
	case LevelSuccess, LevelInfo, LevelWarning, LevelError:
		return n, true
	default:
		return Notice{}, false
	}
}
