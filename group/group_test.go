package group

import (
	"bytes"
	"math/big"
	"testing"
)

var allGroups = []Group{
	RFC5114ModP1024160(),
	RFC5114ModP2048224(),
	RFC5114ModP2048256(),
	Ristretto255(),
	Pallas(),
	Vesta(),
}

func TestGroup(t *testing.T) {
	const testTimes = 1 << 5
	for _, g := range allGroups {
		g := g
		t.Run(g.Name()+"/Neg", func(tt *testing.T) { testNeg(tt, testTimes, g) })
		t.Run(g.Name()+"/Order", func(tt *testing.T) { testOrder(tt, testTimes, g) })
		t.Run(g.Name()+"/Set", func(tt *testing.T) { testSet(tt, g) })
		t.Run(g.Name()+"/Marshal", func(tt *testing.T) { testMarshal(tt, testTimes, g) })
		t.Run(g.Name()+"/Scalar", func(tt *testing.T) { testScalar(tt, testTimes, g) })
		t.Run(g.Name()+"/GeneratorsDistinct", func(tt *testing.T) { testGeneratorsDistinct(tt, g) })
	}
}

func testNeg(t *testing.T, testTimes int, g Group) {
	Q := g.Element()
	for i := 0; i < testTimes; i++ {
		P := g.Random()
		Q.Set(P)
		Q.Subtract(Q, P)
		if !Q.IsIdentity() {
			t.Error("testNeg: P - P is not the identity")
		}
	}
}

func testOrder(t *testing.T, testTimes int, g Group) {
	I := g.Identity()
	Q := g.Element()
	minusOne := big.NewInt(-1)
	for i := 0; i < testTimes; i++ {
		P := g.Random()
		Q.Scale(P, minusOne)
		got := Q.Add(Q, P)
		if !got.IsEqual(I) {
			t.Error("testOrder: P + (-1)*P is not the identity")
		}
	}
}

func testSet(t *testing.T, g Group) {
	P := g.Random()
	Q := g.Element()
	Q.Set(P)
	if !Q.IsEqual(P) {
		t.Error("testSet: Set did not reproduce its argument")
	}
}

func testMarshal(t *testing.T, testTimes int, g Group) {
	for i := 0; i < testTimes; i++ {
		P := g.Random()
		b, err := P.MarshalBinary()
		if err != nil {
			t.Fatalf("testMarshal: MarshalBinary: %v", err)
		}
		Q, err := g.Element().SetBytes(b)
		if err != nil {
			t.Fatalf("testMarshal: SetBytes: %v", err)
		}
		if !Q.IsEqual(P) {
			t.Error("testMarshal: round trip did not reproduce the element")
		}
	}

	if _, err := g.Element().SetBytes([]byte{}); err != ErrDeserialization {
		t.Error("testMarshal: empty input should be a deserialization error")
	}
}

func testScalar(t *testing.T, testTimes int, g Group) {
	q := g.N()
	seen := make(map[string]struct{})
	for i := 0; i < testTimes; i++ {
		s := g.ScalarRandom()
		if s.Sign() <= 0 || s.Cmp(q) >= 0 {
			t.Fatalf("testScalar: %s out of range [1, q)", s)
		}
		seen[s.String()] = struct{}{}
	}
	if len(seen) < testTimes/2 {
		t.Error("testScalar: suspiciously few distinct scalars sampled")
	}

	big7 := big.NewInt(7)
	got := g.ScalarFromBytes(big7.Bytes())
	if got.Cmp(big7) != 0 {
		t.Error("testScalar: ScalarFromBytes of a small value should not reduce")
	}

	over := new(big.Int).Add(q, big.NewInt(3))
	got = g.ScalarFromBytes(over.Bytes())
	want := new(big.Int).Mod(over, q)
	if got.Cmp(want) != 0 {
		t.Error("testScalar: ScalarFromBytes did not reduce mod q")
	}
}

func testGeneratorsDistinct(t *testing.T, g Group) {
	gen, err := g.Generator().MarshalBinary()
	if err != nil {
		t.Fatalf("testGeneratorsDistinct: marshal g: %v", err)
	}
	h, err := g.H().MarshalBinary()
	if err != nil {
		t.Fatalf("testGeneratorsDistinct: marshal h: %v", err)
	}
	if bytes.Equal(gen, h) {
		t.Error("testGeneratorsDistinct: g and h must not coincide")
	}
	if g.H().IsIdentity() {
		t.Error("testGeneratorsDistinct: h must not be the identity")
	}
}

func TestMath(t *testing.T) {
	for _, g := range allGroups {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			a := g.Element().BaseScale(big.NewInt(2))
			b := g.Element().Add(g.Generator(), g.Generator())
			if !a.IsEqual(b) {
				t.Error("doubling error")
			}

			a = g.Element().Add(a, g.Generator())
			b = g.Element().BaseScale(big.NewInt(3))
			if !a.IsEqual(b) {
				t.Error("error in adding or scaling")
			}

			e := g.Identity()
			r1 := g.Random()
			r2 := g.Random()
			e.Add(r1, r2)
			e.Subtract(e, r2)
			if !e.IsEqual(r1) {
				t.Error("error in subtracting")
			}
		})
	}
}
