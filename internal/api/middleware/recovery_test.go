package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panicking() http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func TestRecovery_HidesDetailsInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	Recovery(discardLogger(), false)(panicking()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.Stack)
}

func TestRecovery_ExposesDetailsInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	Recovery(discardLogger(), true)(panicking()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "boom", resp.Error)
	assert.NotEmpty(t, resp.Stack)
}
