package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"n": 1}) })
	r.GET("/fail", func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"name": "name is required"})
	})

	t.Run("success echoes request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		r.ServeHTTP(w, req)

		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, body.Error)
		assert.Equal(t, "abc-123", body.Metadata.RequestID)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("failure carries code and fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, ErrValidation, body.Error.Code)
		assert.Equal(t, "name is required", body.Error.Fields["name"])
		assert.NotEmpty(t, body.Metadata.RequestID)
	})
}

func TestGetMessage_UnknownCode(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage("NOPE"))
	assert.Equal(t, "You have already submitted this exam.", GetMessage(ErrAlreadySubmitted))
}
