package types

import "strings"

type Category string

const (
	CategoryHistory   Category = "History"
	CategoryNature    Category = "Nature"
	CategorySpiritual Category = "Spiritual"
	CategoryModern    Category = "Modern"
	CategoryFood      Category = "Food"
)

// Categories lists every category a place may carry, in prompt order.
var Categories = []Category{
	CategoryHistory,
	CategoryNature,
	CategorySpiritual,
	CategoryModern,
	CategoryFood,
}

// ParseCategory matches s against the fixed category set, ignoring case and surrounding space.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Place is a point of interest. Places are never patched after creation; callers
// replace the whole value.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
	ImageRef    string   `json:"image_ref"`
	Category    Category `json:"category"`
	Rating      float64  `json:"rating"`
	Tags        []string `json:"tags"`
}

// ClampRating keeps a rating inside [MinRating, MaxRating].
func ClampRating(r float64) float64 {
	switch {
	case r < MinRating:
		return MinRating
	case r > MaxRating:
		return MaxRating
	default:
		return r
	}
}

func clonePlaces(in []Place) []Place {
	if in == nil {
		return nil
	}
	out := make([]Place, len(in))
	for i, p := range in {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}
