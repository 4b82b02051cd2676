package places

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bharat-guide/internal/locale"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

func TestIconicIsACopy(t *testing.T) {
	first := Iconic()
	require.Len(t, first, 4)
	first[0].Tags[0] = "mutated"
	first[0].Name = "mutated"

	second := Iconic()
	assert.Equal(t, "Taj Mahal", second[0].Name)
	assert.Equal(t, "UNESCO", second[0].Tags[0])
}

func TestNearest(t *testing.T) {
	t.Run("Within range", func(t *testing.T) {
		p, d, ok := Nearest(types.Location{Lat: 27.1795, Lng: 78.0422}, 50)
		require.True(t, ok)
		assert.Equal(t, "taj-mahal", p.ID)
		assert.Less(t, d, 1.0)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, _, ok := Nearest(types.Location{Lat: 19.0760, Lng: 72.8777}, 50)
		assert.False(t, ok)
	})
}

func TestImageRef(t *testing.T) {
	assert.Equal(t, "https://picsum.photos/seed/Mehtab%20Bagh/600/800", ImageRef("Mehtab Bagh"))
}

func TestHandler(t *testing.T) {
	h := NewHandler(locale.NewTable(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("Iconic", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetIconic(w, httptest.NewRequest(http.MethodGet, "/api/v1/places/iconic", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got []types.Place
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got, 4)
		assert.Equal(t, "hampi", got[3].ID)
	})

	t.Run("Locales", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetLocales(w, httptest.NewRequest(http.MethodGet, "/api/v1/locales", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got []struct {
			Code    string            `json:"code"`
			Phrases map[string]string `json:"phrases"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 6)
		assert.Equal(t, "hi", got[1].Code)
		assert.Equal(t, "अर्जुन से पूछें", got[1].Phrases["guide"])
	})
}
