// Package sigma implements the Chaum-Pedersen Sigma protocol for equality
// of discrete logarithms, parameterised over any group.Group backend.
//
// A prover holds a secret scalar x and publishes y1 = g^x, y2 = h^x. It
// proves knowledge of x without revealing it by committing to a fresh
// witness k, answering a verifier-chosen challenge c, and letting the
// verifier recompute both commitments from the response alone.
package sigma

import (
	"math/big"

	"github.com/zkauthproto/sigma-auth/group"
)

// Commitment holds the public commitment pair (y1, y2) = (g^x, h^x) and
// the prover's session witness r1, r2, k. k never leaves the prover: it is
// consumed by Respond and must not be serialized or logged.
type Commitment struct {
	Y1, Y2 group.Element
	R1, R2 group.Element
	K      *big.Int
}

// Commit draws a fresh witness k uniformly in [1, q) and returns the
// public commitment y1, y2 = g^x, h^x together with the session
// commitment r1, r2 = g^k, h^k. A k that draws to zero is resampled: it
// would leak no information but weakens soundness since c is no longer
// bound to a fresh commitment.
func Commit(g group.Group, x *big.Int) Commitment {
	y1 := g.Element().BaseScale(x)
	y2 := g.Element().Scale(g.H(), x)

	k := g.ScalarRandom()
	for k.Sign() == 0 {
		k = g.ScalarRandom()
	}

	r1 := g.Element().BaseScale(k)
	r2 := g.Element().Scale(g.H(), k)

	return Commitment{Y1: y1, Y2: y2, R1: r1, R2: r2, K: k}
}

// Challenge draws a verifier challenge c uniformly in [1, q).
func Challenge(g group.Group) *big.Int {
	return g.ScalarRandom()
}

// Respond computes s = k - c*x (mod q), reduced to a non-negative
// representative in [0, q). The sign convention matches Verify and MUST
// stay consistent between the two: this subtractive form is what makes
// the verification equation r = g^s * y^c hold.
func Respond(g group.Group, x, k, c *big.Int) *big.Int {
	q := g.N()

	cx := new(big.Int).Mul(c, x)
	s := new(big.Int).Sub(k, cx)
	return s.Mod(s, q)
}

// Verify checks both r1 = g^s * y1^c and r2 = h^s * y2^c, accepting only
// if both hold. Both equalities are always evaluated; short-circuiting on
// the first is permitted by the protocol but not performed here, so that
// verification time does not depend on which check would have failed
// first.
func Verify(g group.Group, y1, y2, r1, r2 group.Element, c, s *big.Int) bool {
	gs := g.Element().BaseScale(s)
	y1c := g.Element().Scale(y1, c)
	lhs1 := g.Element().Add(gs, y1c)
	ok1 := lhs1.IsEqual(r1)

	hs := g.Element().Scale(g.H(), s)
	y2c := g.Element().Scale(y2, c)
	lhs2 := g.Element().Add(hs, y2c)
	ok2 := lhs2.IsEqual(r2)

	return ok1 && ok2
}
