package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/configs"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

func init() {
	logx.InitGlobalLogger(false)
}

// testDeps carries only config; validation paths under test never reach the
// database or storage collaborators.
func testDeps() *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{JWTSecret: "test-secret", Environment: "development"},
	}
}

func postJSON(handlerFn http.HandlerFunc, target, body string) (*httptest.ResponseRecorder, resp.JSONResponse) {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handlerFn(w, r)

	var envelope resp.JSONResponse
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func TestHandleSignupRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing name", `{"fullName":"","email":"a@b.co","password":"longenough"}`, errs.ErrInvalidFullName},
		{"bad email", `{"fullName":"Ada","email":"nope","password":"longenough"}`, errs.ErrInvalidEmail},
		{"short password", `{"fullName":"Ada","email":"a@b.co","password":"short"}`, errs.ErrInvalidPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, envelope := postJSON(HandleSignup(testDeps()), "/api/auth/signup", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantCode, envelope.Code)
		})
	}
}

func TestHandleSignupRejectsNonJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("fullName=Ada"))
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	HandleSignup(testDeps())(w, r)

	var envelope resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, errs.ErrUnsupportedMediaType, envelope.Code)
}

func TestHandleCheckAuthWithoutTokenIsUnauthorized(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	w := httptest.NewRecorder()

	HandleCheckAuth(testDeps())(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, errs.ErrUnauthorized, envelope.Code)
}

func TestHandleLogout(t *testing.T) {
	w, envelope := postJSON(HandleLogout(), "/api/auth/logout", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, envelope.Code)
}
