package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashShowsOnce(t *testing.T) {
	set := httptest.NewRecorder()
	SetFlash(set, "success", "You arrive in Millbrook: at last")
	cookies := set.Result().Cookies()
	require.Len(t, cookies, 1)

	var seen *FlashMessage
	h := Flash()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetFlash(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.NotNil(t, seen)
	assert.Equal(t, "success", seen.Type)
	assert.Equal(t, "You arrive in Millbrook: at last", seen.Message)

	cleared := rr.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, flashCookie, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestFlashIgnoresGarbage(t *testing.T) {
	var seen *FlashMessage
	h := Flash()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetFlash(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "not base64!"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, seen)
}
