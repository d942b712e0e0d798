package sigma

import (
	"math/big"
	"testing"

	"github.com/zkauthproto/sigma-auth/group"
)

var allGroups = []group.Group{
	group.RFC5114ModP1024160(),
	group.RFC5114ModP2048224(),
	group.RFC5114ModP2048256(),
	group.Ristretto255(),
	group.Pallas(),
	group.Vesta(),
}

func TestCompleteness(t *testing.T) {
	const testTimes = 1 << 4
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			for i := 0; i < testTimes; i++ {
				x := g.ScalarRandom()
				com := Commit(g, x)
				c := Challenge(g)
				s := Respond(g, x, com.K, c)
				if !Verify(g, com.Y1, com.Y2, com.R1, com.R2, c, s) {
					t.Fatalf("honest prover rejected for x=%s", x)
				}
			}
		})
	}
}

func TestCompletenessZeroSecret(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			x := big.NewInt(0)
			com := Commit(g, x)
			if !com.Y1.IsIdentity() || !com.Y2.IsIdentity() {
				t.Fatalf("x=0 should yield identity commitments")
			}
			c := Challenge(g)
			s := Respond(g, x, com.K, c)
			if !Verify(g, com.Y1, com.Y2, com.R1, com.R2, c, s) {
				t.Fatalf("vacuous proof with x=0 should still verify")
			}
		})
	}
}

func TestSoundnessSmoke(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			x := g.ScalarRandom()
			com := Commit(g, x)
			c := Challenge(g)
			s := Respond(g, x, com.K, c)

			tampered := new(big.Int).Add(s, big.NewInt(1))
			tampered.Mod(tampered, g.N())
			if Verify(g, com.Y1, com.Y2, com.R1, com.R2, c, tampered) {
				t.Fatal("tampered response should not verify")
			}
		})
	}
}

func TestEqualityOfDL(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			x1 := g.ScalarRandom()
			x2 := g.ScalarRandom()

			y1 := g.Element().BaseScale(x1)
			y2 := g.Element().Scale(g.H(), x2)

			com := Commit(g, x1)
			c := Challenge(g)
			s := Respond(g, x1, com.K, c)

			if Verify(g, y1, y2, com.R1, com.R2, c, s) {
				t.Fatal("verification should fail when y2 used a different exponent")
			}
		})
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			x := g.ScalarRandom()
			com := Commit(g, x)
			for name, el := range map[string]group.Element{
				"y1": com.Y1, "y2": com.Y2, "r1": com.R1, "r2": com.R2,
			} {
				b, err := el.MarshalBinary()
				if err != nil {
					t.Fatalf("%s: MarshalBinary: %v", name, err)
				}
				got, err := g.Element().SetBytes(b)
				if err != nil {
					t.Fatalf("%s: SetBytes: %v", name, err)
				}
				if !got.IsEqual(el) {
					t.Fatalf("%s: round trip did not reproduce the element", name)
				}
			}
		})
	}
}
