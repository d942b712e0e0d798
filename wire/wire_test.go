package wire

import (
	"testing"

	"github.com/zkauthproto/sigma-auth/group"
)

var allGroups = []group.Group{
	group.RFC5114ModP1024160(),
	group.Ristretto255(),
	group.Pallas(),
	group.Vesta(),
}

func TestElementRoundTrip(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			e := g.Random()
			b, err := MarshalElement(e)
			if err != nil {
				t.Fatalf("MarshalElement: %v", err)
			}
			got, err := UnmarshalElement(g, b)
			if err != nil {
				t.Fatalf("UnmarshalElement: %v", err)
			}
			if !got.IsEqual(e) {
				t.Fatal("round trip did not reproduce the element")
			}
		})
	}
}

func TestUnmarshalElementMalformed(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			if _, err := UnmarshalElement(g, nil); err != group.ErrDeserialization {
				t.Fatalf("expected ErrDeserialization, got %v", err)
			}
		})
	}
}

func TestScalarRoundTrip(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			s := g.ScalarRandom()
			b := MarshalScalar(s)
			got := UnmarshalScalar(g, b)
			if got.Cmp(s) != 0 {
				t.Fatalf("round trip: got %s, want %s", got, s)
			}
		})
	}
}
