package domain

// Profile is the optional display information a member attaches to
// itself. Zero values mean "not set" and are omitted on the wire.
type Profile struct {
	Name       string `json:"name,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Art        string `json:"art,omitempty"`
}
