package places

import (
	"fmt"
	"net/url"

	"github.com/FACorreiaa/bharat-guide/internal/types"
)

// iconic is the static catalogue shown before any anchor is chosen.
var iconic = []types.Place{
	{
		ID:          "taj-mahal",
		Name:        "Taj Mahal",
		Description: "An immense mausoleum of white marble, built in Agra between 1631 and 1648 by order of the Mughal emperor Shah Jahan in memory of his favourite wife.",
		Location:    types.Location{Lat: 27.1751, Lng: 78.0421},
		ImageRef:    "https://picsum.photos/seed/tajmahal/600/800",
		Category:    types.CategoryHistory,
		Rating:      4.9,
		Tags:        []string{"UNESCO", "Wonder", "Mughal"},
	},
	{
		ID:          "hawa-mahal",
		Name:        "Hawa Mahal",
		Description: `The "Palace of Winds" in Jaipur, famous for its high screen wall built so the women of the royal household could observe street festivals while unseen from the outside.`,
		Location:    types.Location{Lat: 26.9239, Lng: 75.8267},
		ImageRef:    "https://picsum.photos/seed/hawamahal/600/800",
		Category:    types.CategoryHistory,
		Rating:      4.7,
		Tags:        []string{"Jaipur", "Pink City", "Architecture"},
	},
	{
		ID:          "kerala-backwaters",
		Name:        "Kerala Backwaters",
		Description: "A network of brackish lagoons and lakes lying parallel to the Arabian Sea coast (known as the Malabar Coast) of Kerala state in southern India.",
		Location:    types.Location{Lat: 9.4981, Lng: 76.3388},
		ImageRef:    "https://picsum.photos/seed/kerala/600/800",
		Category:    types.CategoryNature,
		Rating:      4.8,
		Tags:        []string{"Boathouse", "Serene", "Nature"},
	},
	{
		ID:          "hampi",
		Name:        "Group of Monuments at Hampi",
		Description: "The magnificent ruins of Hampi reveal a sophisticated urban, royal and sacred system where monumental structures, temples and palaces were built.",
		Location:    types.Location{Lat: 15.3350, Lng: 76.4600},
		ImageRef:    "https://picsum.photos/seed/hampi/600/800",
		Category:    types.CategoryHistory,
		Rating:      4.8,
		Tags:        []string{"Ruins", "Vijayanagara", "Temple"},
	},
}

// Iconic returns a fresh copy of the seed catalogue.
func Iconic() []types.Place {
	out := make([]types.Place, len(iconic))
	for i, p := range iconic {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}

// Nearest returns the iconic place closest to loc if it lies within maxKm.
func Nearest(loc types.Location, maxKm float64) (types.Place, float64, bool) {
	best, bestDist := -1, 0.0
	for i, p := range iconic {
		d := loc.DistanceKm(p.Location)
		if d <= maxKm && (best == -1 || d < bestDist) {
			best, bestDist = i, d
		}
	}
	if best == -1 {
		return types.Place{}, 0, false
	}
	return Iconic()[best], bestDist, true
}

// ImageRef builds the placeholder image for a generated place.
func ImageRef(name string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/600/800", url.PathEscape(name))
}
