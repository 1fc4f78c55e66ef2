package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteServiceUnavailable(rr, "Conversation service is not available.")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{
		Error:   "Service Unavailable",
		Code:    503,
		Message: "Conversation service is not available.",
	}, body)
}

func TestWriteBinary(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteBinary(rr, "audio/wav", []byte("RIFF"), map[string]string{"X-Audio-Duration-Ms": "1200"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "audio/wav", rr.Header().Get("Content-Type"))
	assert.Equal(t, "1200", rr.Header().Get("X-Audio-Duration-Ms"))
	assert.Equal(t, "RIFF", rr.Body.String())
}
