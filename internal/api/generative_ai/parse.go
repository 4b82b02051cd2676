package generativeAI

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/bharat-guide/internal/types"
)

// ValidationMode decides what happens to a discovery response containing invalid items.
type ValidationMode string

const (
	// ValidationStrict rejects the whole response when any item is invalid.
	ValidationStrict ValidationMode = "strict"
	// ValidationFilter drops invalid items and keeps the rest.
	ValidationFilter ValidationMode = "filter"
)

const (
	MinGemRating = 4.0
	MaxGemRating = 5.0
	MinTags      = 2
	MaxTags      = 3
)

// rawItem uses pointers so a missing field can be told apart from a zero value.
type rawItem struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Rating      *float64  `json:"rating"`
	Tags        *[]string `json:"tags"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
}

// cleanJSONResponse strips markdown fences and any prose around the outermost array.
// Text whose first JSON value is an object is returned unchanged so it fails as a non-array.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	first := strings.Index(response, "[")
	last := strings.LastIndex(response, "]")
	if first == -1 || last <= first {
		return response
	}
	if brace := strings.Index(response, "{"); brace != -1 && brace < first {
		return response
	}
	return response[first : last+1]
}

func parseDiscovery(text string, mode ValidationMode) ([]DiscoveryItem, error) {
	cleaned := cleanJSONResponse(text)
	if cleaned == "" {
		return nil, newError(ErrEmpty, KindDiscovery, "model returned no text")
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, newError(ErrParse, KindDiscovery, "response is not valid JSON")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, newError(ErrSchema, KindDiscovery, "response is not an array: %w", err)
	}
	if len(raw) == 0 {
		return nil, newError(ErrEmpty, KindDiscovery, "response array is empty")
	}

	items := make([]DiscoveryItem, 0, len(raw))
	var firstErr error
	for i, msg := range raw {
		item, err := decodeItem(msg)
		if err != nil {
			err = fmt.Errorf("item %d: %w", i, err)
			if mode != ValidationFilter {
				return nil, &ServiceError{Kind: ErrSchema, Request: KindDiscovery, Err: err}
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, &ServiceError{Kind: ErrSchema, Request: KindDiscovery, Err: fmt.Errorf("no valid items: %w", firstErr)}
	}
	return items, nil
}

func decodeItem(msg json.RawMessage) (DiscoveryItem, error) {
	var r rawItem
	if err := json.Unmarshal(msg, &r); err != nil {
		return DiscoveryItem{}, err
	}

	switch {
	case r.Name == nil:
		return DiscoveryItem{}, fmt.Errorf("missing name")
	case r.Description == nil:
		return DiscoveryItem{}, fmt.Errorf("missing description")
	case r.Category == nil:
		return DiscoveryItem{}, fmt.Errorf("missing category")
	case r.Rating == nil:
		return DiscoveryItem{}, fmt.Errorf("missing rating")
	case r.Tags == nil:
		return DiscoveryItem{}, fmt.Errorf("missing tags")
	case r.Lat == nil, r.Lng == nil:
		return DiscoveryItem{}, fmt.Errorf("missing coordinates")
	}

	item := DiscoveryItem{
		Name:        strings.TrimSpace(*r.Name),
		Description: strings.TrimSpace(*r.Description),
		Rating:      *r.Rating,
		Lat:         *r.Lat,
		Lng:         *r.Lng,
	}
	if item.Name == "" || item.Description == "" {
		return DiscoveryItem{}, fmt.Errorf("blank name or description")
	}

	category, ok := types.ParseCategory(*r.Category)
	if !ok {
		return DiscoveryItem{}, fmt.Errorf("unknown category %q", *r.Category)
	}
	item.Category = string(category)

	if item.Rating < MinGemRating || item.Rating > MaxGemRating {
		return DiscoveryItem{}, fmt.Errorf("rating %.2f outside [%.1f, %.1f]", item.Rating, MinGemRating, MaxGemRating)
	}

	for _, tag := range *r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			item.Tags = append(item.Tags, tag)
		}
	}
	if len(item.Tags) < MinTags || len(item.Tags) > MaxTags {
		return DiscoveryItem{}, fmt.Errorf("want %d-%d tags, got %d", MinTags, MaxTags, len(item.Tags))
	}

	if !(types.Location{Lat: item.Lat, Lng: item.Lng}).Valid() {
		return DiscoveryItem{}, fmt.Errorf("coordinates out of range")
	}
	return item, nil
}

func parseChat(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newError(ErrSchema, KindChat, "model returned empty text")
	}
	return text, nil
}
