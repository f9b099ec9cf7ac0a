package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelope(t *testing.T) {
	resp := Success(http.StatusCreated, map[string]string{"id": "1"})
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, resp.Error)
}

func TestErrorEnvelope(t *testing.T) {
	resp := Error(http.StatusNotFound, "bill not found")
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "bill not found", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestListEnvelope(t *testing.T) {
	resp := List("bills", []string{"a", "b"}, 42, 2, 20)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, data["bills"])
	assert.Equal(t, int64(42), data["total"])
	assert.Equal(t, 2, data["page"])
	assert.Equal(t, 20, data["limit"])
}
