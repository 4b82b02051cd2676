package types

import "encoding/json"

type DiscoveryStatus string

const (
	StatusIdle    DiscoveryStatus = "idle"
	StatusLoading DiscoveryStatus = "loading"
	StatusReady   DiscoveryStatus = "ready"
	StatusFailed  DiscoveryStatus = "failed"
)

// DiscoveryState is the observable state of a discovery flow. Values are treated
// as immutable snapshots: every transition returns a new state.
type DiscoveryState struct {
	Anchor *Location       `json:"anchor"`
	Places []Place         `json:"places"`
	Status DiscoveryStatus `json:"status"`
}

// NewDiscoveryState returns the idle state showing the given places.
func NewDiscoveryState(places []Place) DiscoveryState {
	return DiscoveryState{
		Places: clonePlaces(places),
		Status: StatusIdle,
	}
}

// Loading moves to the loading state for a new anchor, keeping the current places on screen.
func (s DiscoveryState) Loading(anchor Location) DiscoveryState {
	a := anchor
	return DiscoveryState{
		Anchor: &a,
		Places: clonePlaces(s.Places),
		Status: StatusLoading,
	}
}

// Resolved commits a result. An empty list is a failure that preserves the previous places.
func (s DiscoveryState) Resolved(places []Place) DiscoveryState {
	if len(places) == 0 {
		return s.Failed()
	}
	next := s.Clone()
	next.Places = clonePlaces(places)
	next.Status = StatusReady
	return next
}

// Failed marks the flow failed without touching the places.
func (s DiscoveryState) Failed() DiscoveryState {
	next := s.Clone()
	next.Status = StatusFailed
	return next
}

// Clone returns a deep copy so snapshots handed to subscribers cannot alias internal state.
func (s DiscoveryState) Clone() DiscoveryState {
	out := DiscoveryState{
		Places: clonePlaces(s.Places),
		Status: s.Status,
	}
	if s.Anchor != nil {
		a := *s.Anchor
		out.Anchor = &a
	}
	return out
}

// TitleKey names the translation key for the feed heading.
func (s DiscoveryState) TitleKey() string {
	if s.Anchor != nil {
		return "nearby"
	}
	return "explore"
}

// MarshalJSON adds the derived title_key to the wire form.
func (s DiscoveryState) MarshalJSON() ([]byte, error) {
	type state DiscoveryState
	return json.Marshal(struct {
		state
		TitleKey string `json:"title_key"`
	}{state(s), s.TitleKey()})
}
