package prompt

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/bharat-guide/internal/api/places"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

const personaInstruction = `
    You are Arjun, a witty, knowledgeable, and storytelling Indian historian and tour guide.
    You speak in a friendly, warm, and slightly poetic tone.
    You love sharing "did you know" facts about India.
    Your current language is: %s.
    If the user asks about a location, provide historical context and local legends.
    Keep responses concise (under 100 words) unless asked for details.`

func generateSystemInstruction(lang types.Language, contextHint string) string {
	instruction := fmt.Sprintf(personaInstruction, lang)
	if hint := strings.TrimSpace(contextHint); hint != "" {
		instruction += "\n    User context: " + hint
	}
	return instruction
}

// BuildChatRequest sends history as ordered turns followed by newMessage as the last user turn.
func (b Builder) BuildChatRequest(history []types.ChatMessage, newMessage string, lang types.Language, contextHint string) generativeAI.RequestSpec {
	turns := make([]generativeAI.Turn, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleModel)
		if m.Role == types.RoleUser {
			role = genai.RoleUser
		}
		turns = append(turns, generativeAI.Turn{Role: role, Text: m.Text})
	}

	return generativeAI.RequestSpec{
		Kind:              generativeAI.KindChat,
		Model:             b.opts.Model,
		Prompt:            newMessage,
		Turns:             turns,
		SystemInstruction: generateSystemInstruction(lang, contextHint),
		Temperature:       genai.Ptr(b.opts.ChatTemperature),
	}
}

// LocationContext describes where the user is, naming a nearby iconic place when there is one.
func LocationContext(loc types.Location) string {
	hint := fmt.Sprintf("User is at Lat: %s, Lng: %s", formatCoord(loc.Lat), formatCoord(loc.Lng))
	if p, d, ok := places.Nearest(loc, ContextRadiusKm); ok {
		hint += fmt.Sprintf(". Nearest famous destination: %s (%.1f km away)", p.Name, d)
	}
	return hint
}
