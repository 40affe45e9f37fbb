package galaxy

import (
	"encoding/json"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func qualifyingBody(name string) Body {
	return Body{
		Name:           name,
		Rings:          []json.RawMessage{json.RawMessage(`{"name":"R1"}`)},
		IsLandable:     true,
		AtmosphereType: ptr("Thin"),
	}
}

func TestMatchRejectsFast(t *testing.T) {
	cases := []struct {
		name string
		sys  System
	}{
		{"no bodies", System{Name: "S", Population: ptr(int64(0)), Coords: &Coords{}}},
		{"nonzero population", System{Name: "S", Population: ptr(int64(1)), Coords: &Coords{}, Bodies: []Body{qualifyingBody("b")}}},
		{"missing population", System{Name: "S", Coords: &Coords{}, Bodies: []Body{qualifyingBody("b")}}},
		{"missing coords", System{Name: "S", Population: ptr(int64(0)), Bodies: []Body{qualifyingBody("b")}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := Match(&tc.sys); ok {
				t.Error("system should be rejected")
			}
		})
	}
}

func TestMatchBodyCriteria(t *testing.T) {
	base := func(b Body) System {
		return System{Name: "S", Population: ptr(int64(0)), Coords: &Coords{}, Bodies: []Body{b}}
	}

	cases := []struct {
		name string
		body Body
		want bool
	}{
		{"qualifies", qualifyingBody("b"), true},
		{"no rings", Body{Name: "b", Rings: nil, IsLandable: true, AtmosphereType: ptr("Thin")}, false},
		{"empty rings", Body{Name: "b", Rings: []json.RawMessage{}, IsLandable: true, AtmosphereType: ptr("Thin")}, false},
		{"not landable", Body{Name: "b", Rings: []json.RawMessage{json.RawMessage(`{}`)}, IsLandable: false, AtmosphereType: ptr("Thin")}, false},
		{"null atmosphere", Body{Name: "b", Rings: []json.RawMessage{json.RawMessage(`{}`)}, IsLandable: true, AtmosphereType: nil}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sys := base(tc.body)
			_, ok := Match(&sys)
			if ok != tc.want {
				t.Errorf("Match = %v, want %v", ok, tc.want)
			}
		})
	}
}

func TestMatchFirstQualifyingBodyWins(t *testing.T) {
	sys := System{
		Name:       "Sol",
		Population: ptr(int64(0)),
		Coords:     &Coords{},
		Bodies: []Body{
			{Name: "A", Rings: []json.RawMessage{}, IsLandable: true, AtmosphereType: ptr("Thin")},
			qualifyingBody("B"),
			qualifyingBody("C"),
		},
	}

	body, ok := Match(&sys)
	if !ok {
		t.Fatal("system should match")
	}
	if body.Name != "B" {
		t.Errorf("first qualifying body should win, got %q", body.Name)
	}
}

func TestBodyRawCapture(t *testing.T) {
	// The raw text keeps fields the struct does not model.
	text := `{"name":"b1","rings":[{"name":"R"}],"isLandable":true,"atmosphereType":"Thin","surfaceTemperature":212.5}`

	var b Body
	if err := json.Unmarshal([]byte(text), &b); err != nil {
		t.Fatal(err)
	}
	if string(b.Raw) != text {
		t.Errorf("raw capture differs:\ngot:  %s\nwant: %s", b.Raw, text)
	}
	if b.Name != "b1" || !b.IsLandable || b.AtmosphereType == nil {
		t.Error("modeled fields not decoded")
	}

	var roundtrip map[string]any
	if err := json.Unmarshal(b.Raw, &roundtrip); err != nil {
		t.Fatalf("raw text is not valid JSON: %v", err)
	}
	if roundtrip["surfaceTemperature"] != 212.5 {
		t.Error("unmodeled field lost from raw text")
	}
}
