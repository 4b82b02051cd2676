package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bharat-guide/internal/types"
)

func TestParse(t *testing.T) {
	t.Run("Plain codes", func(t *testing.T) {
		for _, l := range Languages {
			got, err := Parse(string(l.Code))
			require.NoError(t, err)
			assert.Equal(t, l.Code, got)
		}
	})

	t.Run("Regional and mixed case codes", func(t *testing.T) {
		got, err := Parse("hi-IN")
		require.NoError(t, err)
		assert.Equal(t, types.LanguageHindi, got)

		got, err = Parse("TA")
		require.NoError(t, err)
		assert.Equal(t, types.LanguageTamil, got)

		got, err = Parse("te_IN")
		require.NoError(t, err)
		assert.Equal(t, types.LanguageTelugu, got)
	})

	t.Run("Unsupported codes", func(t *testing.T) {
		for _, code := range []string{"", "fr", "de-DE", "not a code"} {
			_, err := Parse(code)
			assert.ErrorIs(t, err, ErrUnsupported, code)
		}
	})

	t.Run("ParseOr falls back", func(t *testing.T) {
		assert.Equal(t, types.LanguageEnglish, ParseOr("xx", types.LanguageEnglish))
		assert.Equal(t, types.LanguageBengali, ParseOr("bn", types.LanguageEnglish))
	})
}

func TestTableTranslate(t *testing.T) {
	table := NewTable()

	assert.Equal(t, "Explore", table.Translate(types.LanguageEnglish, KeyExplore))
	assert.Equal(t, "अन्वेषण करें", table.Translate(types.LanguageHindi, KeyExplore))
	assert.Equal(t, "Explore", table.Translate(types.Language("fr"), KeyExplore), "unknown language falls back to English")
	assert.Equal(t, "missing_key", table.Translate(types.LanguageTamil, "missing_key"))

	for _, l := range Languages {
		assert.NotEmpty(t, table.Translate(l.Code, KeyWelcomeChat))
		assert.Len(t, table.Phrases(l.Code), len(phrases[types.LanguageEnglish]))
	}
}
