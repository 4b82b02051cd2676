// Package prompt turns locations, languages and chat history into generation requests.
// Every function here is deterministic and touches no network or shared state.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

const (
	DefaultModel                = "gemini-3-flash-preview"
	DefaultGemCount             = 3
	DefaultRadiusKm             = 50
	DefaultChatTemperature      float32 = 0.7
	DefaultDiscoveryTemperature float32 = 0.4

	// ContextRadiusKm bounds how far an iconic place may be to be named in a location hint.
	ContextRadiusKm = 50
)

type Options struct {
	Model                string
	GemCount             int
	RadiusKm             int
	DiscoveryTemperature float32
	ChatTemperature      float32
}

// Builder holds the tunables shared by every request it builds.
type Builder struct {
	opts Options
}

func NewBuilder(opts Options) Builder {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.GemCount <= 0 {
		opts.GemCount = DefaultGemCount
	}
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = DefaultRadiusKm
	}
	if opts.DiscoveryTemperature == 0 {
		opts.DiscoveryTemperature = DefaultDiscoveryTemperature
	}
	if opts.ChatTemperature == 0 {
		opts.ChatTemperature = DefaultChatTemperature
	}
	return Builder{opts: opts}
}

func (b Builder) Options() Options { return b.opts }

func categoryList() string {
	quoted := make([]string, len(types.Categories))
	for i, c := range types.Categories {
		quoted[i] = "'" + string(c) + "'"
	}
	return strings.Join(quoted, ", ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func generateDiscoveryPrompt(loc types.Location, lang types.Language, count, radiusKm int) string {
	return fmt.Sprintf(`
    I am a tourist at Latitude: %s, Longitude: %s in India.
    Identify %d specific, real, and interesting "hidden gem" tourist spots within %dkm of this location.
    Prefer lesser-known but accessible historical sites, nature spots, or cultural landmarks.
    Return the response as a JSON array of objects.
    Each object must have:
    - name: string (in %s)
    - description: string (short catchy description in %s, max 2 sentences)
    - category: one of %s
    - rating: number (between %.1f and %.1f)
    - tags: array of %d-%d short strings
    - lat: number
    - lng: number

    Do not include markdown formatting like `+"```json"+`. Just the raw JSON.`,
		formatCoord(loc.Lat), formatCoord(loc.Lng), count, radiusKm, lang, lang, categoryList(),
		generativeAI.MinGemRating, generativeAI.MaxGemRating, generativeAI.MinTags, generativeAI.MaxTags)
}

// DiscoverySchema is the response schema every discovery request declares.
func DiscoverySchema(count int) *genai.Schema {
	categories := make([]string, len(types.Categories))
	for i, c := range types.Categories {
		categories[i] = string(c)
	}
	return &genai.Schema{
		Type:     genai.TypeArray,
		MinItems: genai.Ptr(int64(count)),
		MaxItems: genai.Ptr(int64(count)),
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":        {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"category":    {Type: genai.TypeString, Format: "enum", Enum: categories},
				"rating": {
					Type:    genai.TypeNumber,
					Minimum: genai.Ptr(generativeAI.MinGemRating),
					Maximum: genai.Ptr(generativeAI.MaxGemRating),
				},
				"tags": {
					Type:     genai.TypeArray,
					Items:    &genai.Schema{Type: genai.TypeString},
					MinItems: genai.Ptr(int64(generativeAI.MinTags)),
					MaxItems: genai.Ptr(int64(generativeAI.MaxTags)),
				},
				"lat": {Type: genai.TypeNumber},
				"lng": {Type: genai.TypeNumber},
			},
			Required:         []string{"name", "description", "category", "rating", "tags", "lat", "lng"},
			PropertyOrdering: []string{"name", "description", "category", "rating", "tags", "lat", "lng"},
		},
	}
}

// BuildDiscoveryRequest asks for hidden gems around loc, written in lang.
func (b Builder) BuildDiscoveryRequest(loc types.Location, lang types.Language) generativeAI.RequestSpec {
	return generativeAI.RequestSpec{
		Kind:        generativeAI.KindDiscovery,
		Model:       b.opts.Model,
		Prompt:      generateDiscoveryPrompt(loc, lang, b.opts.GemCount, b.opts.RadiusKm),
		Schema:      DiscoverySchema(b.opts.GemCount),
		Temperature: genai.Ptr(b.opts.DiscoveryTemperature),
	}
}
