package generativeAI

import (
	"google.golang.org/genai"
)

// RequestKind selects how the raw model output is validated.
type RequestKind string

const (
	KindDiscovery RequestKind = "discovery"
	KindChat      RequestKind = "chat"
)

// Turn is one role-tagged entry of a conversation transcript.
type Turn struct {
	Role genai.Role
	Text string
}

// RequestSpec is everything the client needs to issue one generation call.
// Prompt is sent as the final user turn after Turns.
type RequestSpec struct {
	Kind              RequestKind
	Model             string
	Prompt            string
	Turns             []Turn
	SystemInstruction string
	Schema            *genai.Schema
	Temperature       *float32
}

// DiscoveryItem is one validated point of interest as returned by the model.
type DiscoveryItem struct {
	Name        string
	Description string
	Category    string
	Rating      float64
	Tags        []string
	Lat         float64
	Lng         float64
}

// Payload is the parsed result of a successful call. Items is set for discovery
// requests, Text for chat requests.
type Payload struct {
	Items []DiscoveryItem
	Text  string
}

func (s RequestSpec) contents() []*genai.Content {
	contents := make([]*genai.Content, 0, len(s.Turns)+1)
	for _, t := range s.Turns {
		contents = append(contents, genai.NewContentFromText(t.Text, t.Role))
	}
	return append(contents, genai.NewContentFromText(s.Prompt, genai.RoleUser))
}

func (s RequestSpec) config() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: s.Temperature,
	}
	if s.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s.SystemInstruction, genai.RoleUser)
	}
	if s.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = s.Schema
	}
	return cfg
}
