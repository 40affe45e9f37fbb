// Package galaxy defines the decoded shape of one star-system record from a
// galaxy dump, limited to the fields the match predicate inspects. Everything
// else in a record is carried along untouched inside the raw JSON text.
package galaxy

import "encoding/json"

// System is one element of the dump's top-level array.
type System struct {
	Name       string  `json:"name"`
	Population *int64  `json:"population"`
	Coords     *Coords `json:"coords"`
	BodyCount  int     `json:"bodyCount"`
	Bodies     []Body  `json:"bodies"`
}

// Coords is the system's galactic position.
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Body is one celestial object inside a system.
type Body struct {
	Name           string            `json:"name"`
	Rings          []json.RawMessage `json:"rings"`
	IsLandable     bool              `json:"isLandable"`
	AtmosphereType *string           `json:"atmosphereType"`

	// Raw is the body's complete JSON text, including fields this struct
	// does not model. Populated during decoding.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the modeled fields and keeps a copy of the full text
// so a matched body can be persisted verbatim.
func (b *Body) UnmarshalJSON(data []byte) error {
	type plain Body
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Body(p)
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}
