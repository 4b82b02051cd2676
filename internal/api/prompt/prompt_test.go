package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

func TestBuildDiscoveryRequest(t *testing.T) {
	b := NewBuilder(Options{})
	spec := b.BuildDiscoveryRequest(types.Location{Lat: 27.1751, Lng: 78.0421}, types.LanguageEnglish)

	assert.Equal(t, generativeAI.KindDiscovery, spec.Kind)
	assert.Equal(t, DefaultModel, spec.Model)
	assert.Contains(t, spec.Prompt, "Latitude: 27.1751, Longitude: 78.0421")
	assert.Contains(t, spec.Prompt, "Identify 3 specific")
	assert.Contains(t, spec.Prompt, "within 50km")
	assert.Contains(t, spec.Prompt, "name: string (in en)")
	assert.Contains(t, spec.Prompt, "'History', 'Nature', 'Spiritual', 'Modern', 'Food'")
	assert.Contains(t, spec.Prompt, "between 4.0 and 5.0")
	assert.Contains(t, spec.Prompt, "array of 2-3 short strings")
	require.NotNil(t, spec.Temperature)

	t.Run("Schema", func(t *testing.T) {
		s := spec.Schema
		require.NotNil(t, s)
		assert.Equal(t, genai.TypeArray, s.Type)
		require.NotNil(t, s.MinItems)
		assert.EqualValues(t, 3, *s.MinItems)
		assert.EqualValues(t, 3, *s.MaxItems)

		item := s.Items
		require.NotNil(t, item)
		assert.Equal(t, genai.TypeObject, item.Type)
		assert.ElementsMatch(t, []string{"name", "description", "category", "rating", "tags", "lat", "lng"}, item.Required)
		assert.Equal(t, []string{"History", "Nature", "Spiritual", "Modern", "Food"}, item.Properties["category"].Enum)
		assert.Equal(t, genai.TypeNumber, item.Properties["rating"].Type)
		assert.Equal(t, 4.0, *item.Properties["rating"].Minimum)
		assert.EqualValues(t, 2, *item.Properties["tags"].MinItems)
		assert.EqualValues(t, 3, *item.Properties["tags"].MaxItems)
	})

	t.Run("Deterministic", func(t *testing.T) {
		again := b.BuildDiscoveryRequest(types.Location{Lat: 27.1751, Lng: 78.0421}, types.LanguageEnglish)
		assert.Equal(t, spec.Prompt, again.Prompt)
	})

	t.Run("Locale embedded verbatim", func(t *testing.T) {
		ta := b.BuildDiscoveryRequest(types.Location{Lat: 10.7867, Lng: 79.1378}, types.LanguageTamil)
		assert.Contains(t, ta.Prompt, "(in ta)")
		assert.Contains(t, ta.Prompt, "description in ta")
	})

	t.Run("Configured count and radius", func(t *testing.T) {
		custom := NewBuilder(Options{GemCount: 5, RadiusKm: 20}).
			BuildDiscoveryRequest(types.Location{Lat: 1, Lng: 2}, types.LanguageHindi)
		assert.Contains(t, custom.Prompt, "Identify 5 specific")
		assert.Contains(t, custom.Prompt, "within 20km")
		assert.EqualValues(t, 5, *custom.Schema.MinItems)
		assert.EqualValues(t, 5, *custom.Schema.MaxItems)
	})
}

func TestBuildChatRequest(t *testing.T) {
	b := NewBuilder(Options{})
	welcome := types.ChatMessage{ID: "w", Role: types.RoleAssistant, Text: "Namaste! I am Arjun."}

	spec := b.BuildChatRequest([]types.ChatMessage{welcome}, "Tell me about Hampi", types.LanguageEnglish, "")

	assert.Equal(t, generativeAI.KindChat, spec.Kind)
	require.Len(t, spec.Turns, 1)
	assert.Equal(t, genai.Role(genai.RoleModel), spec.Turns[0].Role)
	assert.Equal(t, welcome.Text, spec.Turns[0].Text)
	assert.Equal(t, "Tell me about Hampi", spec.Prompt)
	assert.Nil(t, spec.Schema)
	require.NotNil(t, spec.Temperature)
	assert.InDelta(t, 0.7, *spec.Temperature, 1e-6)

	assert.Contains(t, spec.SystemInstruction, "You are Arjun")
	assert.Contains(t, spec.SystemInstruction, "Your current language is: en.")
	assert.Contains(t, spec.SystemInstruction, "under 100 words")
	assert.NotContains(t, spec.SystemInstruction, "User context")

	t.Run("History order and roles", func(t *testing.T) {
		history := []types.ChatMessage{
			welcome,
			{Role: types.RoleUser, Text: "first"},
			{Role: types.RoleAssistant, Text: "reply"},
		}
		spec := b.BuildChatRequest(history, "second", types.LanguageBengali, "")
		require.Len(t, spec.Turns, 3)
		assert.Equal(t, genai.Role(genai.RoleUser), spec.Turns[1].Role)
		assert.Equal(t, "first", spec.Turns[1].Text)
		assert.Equal(t, "reply", spec.Turns[2].Text)
		assert.Equal(t, "second", spec.Prompt)
		assert.Contains(t, spec.SystemInstruction, "Your current language is: bn.")
	})

	t.Run("Context hint", func(t *testing.T) {
		spec := b.BuildChatRequest(nil, "hi", types.LanguageEnglish, "User is at Lat: 1, Lng: 2")
		assert.Contains(t, spec.SystemInstruction, "User context: User is at Lat: 1, Lng: 2")
		assert.Empty(t, spec.Turns)
	})
}

func TestLocationContext(t *testing.T) {
	t.Run("Near an iconic place", func(t *testing.T) {
		hint := LocationContext(types.Location{Lat: 15.335, Lng: 76.46})
		assert.Equal(t, "User is at Lat: 15.335, Lng: 76.46. Nearest famous destination: Group of Monuments at Hampi (0.0 km away)", hint)
	})

	t.Run("Far from everything", func(t *testing.T) {
		assert.Equal(t, "User is at Lat: 19.076, Lng: 72.8777", LocationContext(types.Location{Lat: 19.076, Lng: 72.8777}))
	})
}
