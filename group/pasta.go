package group

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
)

// pastaGroup implements a short Weierstrass curve y^2 = x^3 + b over a
// prime field of order p, with prime group order n and generator (gx, gy).
// This covers both Pallas and Vesta, the "Pasta" curve pair used by Halo2 /
// Mina: each curve's scalar field is the other's base field. No available
// library provides these curves, so the arithmetic here is a hand-rolled
// big.Int implementation, generalized from this package's own MODP
// backend to the elliptic-curve group law.
type pastaGroup struct {
	p    *big.Int // base field order
	n    *big.Int // group (scalar field) order
	b    *big.Int // curve coefficient (a == 0 for both Pallas and Vesta)
	gx   *big.Int
	gy   *big.Int
	name string
}

// pastaPoint is an affine point on a pastaGroup curve. (x, y) == (nil, nil)
// represents the identity (point at infinity).
type pastaPoint struct {
	curve *pastaGroup
	x, y  *big.Int
}

func (g *pastaGroup) Name() string { return g.name }

func (g *pastaGroup) P() *big.Int { return g.p }
func (g *pastaGroup) N() *big.Int { return g.n }

func (g *pastaGroup) Element() Element {
	return &pastaPoint{curve: g}
}

func (g *pastaGroup) Identity() Element {
	return &pastaPoint{curve: g}
}

func (g *pastaGroup) Generator() Element {
	return &pastaPoint{curve: g, x: new(big.Int).Set(g.gx), y: new(big.Int).Set(g.gy)}
}

func (g *pastaGroup) H() Element {
	return g.hashToCurve(hDomainTag)
}

func (g *pastaGroup) Random() Element {
	e := g.Identity()
	e.BaseScale(g.ScalarRandom())
	return e
}

func (g *pastaGroup) ScalarRandom() *big.Int {
	bound := new(big.Int).Sub(g.n, big.NewInt(1))
	r, err := rand.Int(rand.Reader, bound)
	if err != nil {
		panic("group: csprng failure: " + err.Error())
	}
	return r.Add(r, big.NewInt(1))
}

func (g *pastaGroup) ScalarFromBytes(b []byte) *big.Int {
	s := new(big.Int).SetBytes(b)
	return s.Mod(s, g.n)
}

// hashToCurve implements a simple try-and-increment map to the curve: hash
// a counter-suffixed domain tag to a candidate x-coordinate and test
// whether x^3+b is a quadratic residue mod p, deriving y via sqrtMod.
func (g *pastaGroup) hashToCurve(tag string) Element {
	for ctr := byte(0); ; ctr++ {
		h := sha256.New()
		h.Write([]byte("sigma-auth/pasta/"))
		h.Write([]byte(g.name))
		h.Write([]byte(tag))
		h.Write([]byte{ctr})
		digest := h.Sum(nil)

		x := new(big.Int).SetBytes(digest)
		x.Mod(x, g.p)

		rhs := new(big.Int).Exp(x, big.NewInt(3), g.p)
		rhs.Add(rhs, g.b)
		rhs.Mod(rhs, g.p)

		y, ok := sqrtMod(rhs, g.p)
		if !ok {
			continue
		}
		return &pastaPoint{curve: g, x: x, y: y}
	}
}

// sqrtMod returns a square root of n modulo the prime p via the Tonelli-
// Shanks algorithm, and reports whether n is a quadratic residue. Both
// Pallas's and Vesta's base field primes are 1 mod 4 (their high two-adicity
// is exactly what makes them FFT-friendly for Halo2-style proving systems),
// so the p ≡ 3 (mod 4) shortcut does not apply here.
func sqrtMod(n, p *big.Int) (*big.Int, bool) {
	n = new(big.Int).Mod(n, p)
	if n.Sign() == 0 {
		return big.NewInt(0), true
	}

	one := big.NewInt(1)
	two := big.NewInt(2)

	euler := new(big.Int).Exp(n, new(big.Int).Rsh(new(big.Int).Sub(p, one), 1), p)
	if euler.Cmp(one) != 0 {
		return nil, false
	}

	// p - 1 = q * 2^s, with q odd.
	q := new(big.Int).Sub(p, one)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	// Find a quadratic non-residue z.
	z := big.NewInt(2)
	pMinus1Over2 := new(big.Int).Rsh(new(big.Int).Sub(p, one), 1)
	for new(big.Int).Exp(z, pMinus1Over2, p).Cmp(new(big.Int).Sub(p, one)) != 0 {
		z.Add(z, one)
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(n, q, p)
	qPlus1Over2 := new(big.Int).Rsh(new(big.Int).Add(q, one), 1)
	r := new(big.Int).Exp(n, qPlus1Over2, p)

	for t.Cmp(one) != 0 {
		i, tt := 0, new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt.Exp(tt, two, p)
			i++
		}

		b := new(big.Int).Exp(c, new(big.Int).Lsh(one, uint(m-i-1)), p)
		m = i
		c = new(big.Int).Exp(b, two, p)
		t.Mul(t, c)
		t.Mod(t, p)
		r.Mul(r, b)
		r.Mod(r, p)
	}

	return r, true
}

func (e *pastaPoint) check(a Element) *pastaPoint {
	ea, ok := a.(*pastaPoint)
	if !ok || ea.curve != e.curve {
		panic("group: incompatible element type")
	}
	return ea
}

func (e *pastaPoint) isInfinity() bool { return e.x == nil }

func (e *pastaPoint) Add(a, b Element) Element {
	ea := e.check(a)
	eb := e.check(b)
	p := e.curve.p

	if ea.isInfinity() {
		e.x, e.y = eb.x, eb.y
		return e
	}
	if eb.isInfinity() {
		e.x, e.y = ea.x, ea.y
		return e
	}

	var lambda *big.Int
	if ea.x.Cmp(eb.x) == 0 {
		ySum := new(big.Int).Add(ea.y, eb.y)
		ySum.Mod(ySum, p)
		if ySum.Sign() == 0 {
			// P + (-P) = identity.
			e.x, e.y = nil, nil
			return e
		}
		// Point doubling: lambda = (3x^2) / (2y).
		num := new(big.Int).Mul(ea.x, ea.x)
		num.Mul(num, big.NewInt(3))
		den := new(big.Int).Mul(ea.y, big.NewInt(2))
		den.ModInverse(den, p)
		lambda = num.Mul(num, den)
		lambda.Mod(lambda, p)
	} else {
		// General addition: lambda = (y2-y1) / (x2-x1).
		num := new(big.Int).Sub(eb.y, ea.y)
		den := new(big.Int).Sub(eb.x, ea.x)
		den.Mod(den, p)
		den.ModInverse(den, p)
		lambda = num.Mul(num, den)
		lambda.Mod(lambda, p)
	}

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, ea.x)
	x3.Sub(x3, eb.x)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(ea.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, ea.y)
	y3.Mod(y3, p)

	e.x, e.y = x3, y3
	return e
}

func (e *pastaPoint) Negate(a Element) Element {
	ea := e.check(a)
	if ea.isInfinity() {
		e.x, e.y = nil, nil
		return e
	}
	e.x = new(big.Int).Set(ea.x)
	e.y = new(big.Int).Sub(e.curve.p, ea.y)
	e.y.Mod(e.y, e.curve.p)
	return e
}

func (e *pastaPoint) Subtract(a, b Element) Element {
	neg := e.curve.Identity()
	neg.Negate(b)
	e.Add(a, neg)
	return e
}

func (e *pastaPoint) Set(a Element) Element {
	ea := e.check(a)
	if ea.isInfinity() {
		e.x, e.y = nil, nil
		return e
	}
	e.x = new(big.Int).Set(ea.x)
	e.y = new(big.Int).Set(ea.y)
	return e
}

func (e *pastaPoint) Scale(a Element, s *big.Int) Element {
	ea := e.check(a)
	acc := &pastaPoint{curve: e.curve}
	base := &pastaPoint{curve: e.curve, x: ea.x, y: ea.y}

	exp := new(big.Int).Mod(s, e.curve.n)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		acc.Add(acc, acc)
		if exp.Bit(i) == 1 {
			acc.Add(acc, base)
		}
	}
	e.x, e.y = acc.x, acc.y
	return e
}

func (e *pastaPoint) BaseScale(s *big.Int) Element {
	return e.Scale(e.curve.Generator(), s)
}

func (e *pastaPoint) IsEqual(b Element) bool {
	eb := e.check(b)
	if e.isInfinity() || eb.isInfinity() {
		return e.isInfinity() == eb.isInfinity()
	}
	return e.x.Cmp(eb.x) == 0 && e.y.Cmp(eb.y) == 0
}

func (e *pastaPoint) IsIdentity() bool { return e.isInfinity() }

func (e *pastaPoint) GroupOrder() *big.Int { return e.curve.n }
func (e *pastaPoint) FieldOrder() *big.Int { return e.curve.p }

func (e *pastaPoint) String() string {
	if e.isInfinity() {
		return e.curve.name + ":inf"
	}
	return e.curve.name + ":" + e.x.String() + "," + e.y.String()
}

// MarshalBinary produces a 32-byte compressed point encoding: the
// big-endian x-coordinate with the y-parity packed into the otherwise
// unused top bit (both Pallas's and Vesta's field order is a 255-bit
// prime, so bit 255 of a 32-byte representation is always free). The
// all-zero encoding is reserved for the identity.
func (e *pastaPoint) MarshalBinary() ([]byte, error) {
	const byteLen = 32
	out := make([]byte, byteLen)
	if e.isInfinity() {
		return out, nil
	}
	xb := e.x.Bytes()
	copy(out[byteLen-len(xb):], xb)
	if e.y.Bit(0) == 1 {
		out[0] |= 0x80
	}
	return out, nil
}

func (e *pastaPoint) SetBytes(b []byte) (Element, error) {
	const byteLen = 32
	if len(b) != byteLen {
		return e, ErrDeserialization
	}

	sign := b[0] & 0x80
	xb := make([]byte, byteLen)
	copy(xb, b)
	xb[0] &^= 0x80

	x := new(big.Int).SetBytes(xb)
	if x.Sign() == 0 && sign == 0 {
		e.x, e.y = nil, nil
		return e, nil
	}
	if x.Cmp(e.curve.p) >= 0 {
		return e, ErrDeserialization
	}

	rhs := new(big.Int).Exp(x, big.NewInt(3), e.curve.p)
	rhs.Add(rhs, e.curve.b)
	rhs.Mod(rhs, e.curve.p)

	y, ok := sqrtMod(rhs, e.curve.p)
	if !ok {
		return e, ErrDeserialization
	}
	if (y.Bit(0) == 1) != (sign != 0) {
		y.Sub(e.curve.p, y)
	}

	e.x, e.y = x, y
	return e, nil
}

// Pallas returns the Pallas curve group from the Pasta curve pair: base
// field order equal to Vesta's scalar field, curve equation y^2 = x^3 + 5.
func Pallas() Group {
	p, _ := new(big.Int).SetString("40000000000000000000000000000000224698fc094cf91b992d30ed00000001", 16)
	n, _ := new(big.Int).SetString("40000000000000000000000000000000224698fc0994a8dd8c46eb2100000001", 16)
	gx, _ := new(big.Int).SetString("1", 16)
	gy, _ := new(big.Int).SetString("248b4a5cf5ed6c83ac20560f9c8711ab92e13d27d60fb1aa7f5db6c93512d546", 16)

	return &pastaGroup{p: p, n: n, b: big.NewInt(5), gx: gx, gy: gy, name: "pallas"}
}

// Vesta returns the Vesta curve group from the Pasta curve pair: base
// field order equal to Pallas's scalar field, curve equation y^2 = x^3 + 5.
func Vesta() Group {
	p, _ := new(big.Int).SetString("40000000000000000000000000000000224698fc0994a8dd8c46eb2100000001", 16)
	n, _ := new(big.Int).SetString("40000000000000000000000000000000224698fc094cf91b992d30ed00000001", 16)
	gx, _ := new(big.Int).SetString("1", 16)
	gy, _ := new(big.Int).SetString("1943666ea922ae6b13b64e3aae89754cacce3a7f298ba20c4e4389b9b0276a62", 16)

	return &pastaGroup{p: p, n: n, b: big.NewInt(5), gx: gx, gy: gy, name: "vesta"}
}
