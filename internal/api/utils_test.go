package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat"`
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"text":"hi","lat":12.5}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "malformed", body: `{"text":`, wantErr: "badly-formed JSON"},
		{name: "wrong type", body: `{"text":5}`, wantErr: `incorrect JSON type for field "text"`},
		{name: "unknown key", body: `{"txt":"hi"}`, wantErr: `unknown key "txt"`},
		{name: "trailing value", body: `{"text":"a"}{"text":"b"}`, wantErr: "single JSON value"},
		{name: "too large", body: `{"text":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, wantErr: "must not be larger than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "hi", dst.Text)
				require.NotNil(t, dst.Lat)
				assert.Equal(t, 12.5, *dst.Lat)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusConflict, "busy")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "busy", body["error"])
}

func TestWriteJSONResponseNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONResponse(w, httptest.NewRequest(http.MethodDelete, "/", nil), http.StatusNoContent, map[string]string{"x": "y"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
