package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashMessage is a one-shot notice shown on the next page
type FlashMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const flashCookie = "flash"

// flashTTL is long enough to survive one redirect
const flashTTL = 60

type flashKey struct{}

// GetFlash returns the notice carried over from the previous request, if any
func GetFlash(ctx context.Context) *FlashMessage {
	flash, _ := ctx.Value(flashKey{}).(*FlashMessage)
	return flash
}

// SetFlash queues a notice for the next page the browser loads
func SetFlash(w http.ResponseWriter, flashType, message string) {
	raw, err := json.Marshal(FlashMessage{Type: flashType, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, flashCookieWith(base64.RawURLEncoding.EncodeToString(raw), flashTTL))
}

// Flash moves a queued notice from its cookie into the request context and
// expires the cookie so it shows exactly once
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(flashCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			http.SetCookie(w, flashCookieWith("", -1))
			if flash := decodeFlash(cookie.Value); flash != nil {
				r = r.WithContext(context.WithValue(r.Context(), flashKey{}, flash))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decodeFlash(value string) *FlashMessage {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flash FlashMessage
	if err := json.Unmarshal(raw, &flash); err != nil || flash.Message == "" {
		return nil
	}
	if flash.Type == "" {
		flash.Type = "info"
	}
	return &flash
}

func flashCookieWith(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
