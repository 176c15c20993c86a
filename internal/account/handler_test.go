package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() *Handler {
	service, _, _ := newTestService()
	return NewHandler(service, zap.NewNop())
}

func doJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestHandlerSignUp(t *testing.T) {
	t.Run("success answers 201 with the verify code", func(t *testing.T) {
		h := newTestHandler()

		rec := doJSON(t, h.SignUp, `{"username":"테스트","email":"a@b.com","password":"test777!"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var info Info
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, "테스트", info.Username)
		assert.Equal(t, "a@b.com", info.Email)
		assert.Equal(t, "deactive", info.ActiveType)
		require.NotNil(t, info.VerifyCode)
		assert.Len(t, *info.VerifyCode, 6)
	})

	t.Run("validation failure answers 400 with field lists", func(t *testing.T) {
		h := newTestHandler()

		rec := doJSON(t, h.SignUp, `{"username":"kim","email":"a@b.com","password":"weak"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "username")
		assert.Contains(t, body, "password")
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		h := newTestHandler()

		rec := doJSON(t, h.SignUp, `{"username":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerEmailVerify(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h.SignUp, `{"username":"테스트","email":"a@b.com","password":"test777!"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var info Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.NotNil(t, info.VerifyCode)
	code := *info.VerifyCode

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	t.Run("unknown account answers 404", func(t *testing.T) {
		rec := doJSON(t, h.EmailVerify, `{"email":"nobody@b.com","verify_code":"123456"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong code answers 400", func(t *testing.T) {
		rec := doJSON(t, h.EmailVerify, `{"email":"a@b.com","verify_code":"`+wrong+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("matching code answers 200", func(t *testing.T) {
		rec := doJSON(t, h.EmailVerify, `{"email":"a@b.com","verify_code":"`+code+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"detail":"success to verify"}`, rec.Body.String())
	})

	t.Run("repeated verification answers 400", func(t *testing.T) {
		rec := doJSON(t, h.EmailVerify, `{"email":"a@b.com","verify_code":"`+code+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
