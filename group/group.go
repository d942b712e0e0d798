package group

import (
	"encoding"
	"math/big"
)

// ErrDeserialization is returned by Element.SetBytes when the input octet
// string is not a valid encoding of a group element.
var ErrDeserialization = errDeserialization{}

type errDeserialization struct{}

func (errDeserialization) Error() string { return "group: malformed element encoding" }

// Element represents an element of a prime-order group. Depending on the
// backend the group operation is written multiplicatively (MODP) or
// additively (elliptic curves); Add/Negate/Scale name the operation
// uniformly regardless of which notation the backend's own domain prefers.
type Element interface {
	// Add sets the receiver to X + Y, and returns it.
	Add(X, Y Element) Element
	// Subtract sets the receiver to X - Y and returns it.
	Subtract(X, Y Element) Element
	// Negate sets the receiver to -X, and returns it.
	Negate(X Element) Element
	// Scale performs the group operation s times with X,
	// sets the receiver to the result, and returns it.
	Scale(X Element, s *big.Int) Element
	// BaseScale performs the group operation s times with the
	// group's generator, sets the receiver to the result, and returns it.
	BaseScale(s *big.Int) Element
	// Set sets the receiver to X, and returns it.
	Set(X Element) Element
	// SetBytes recovers a group element from a byte representation,
	// sets the receiver to this element, and returns it. It returns
	// ErrDeserialization if b is not a valid encoding.
	SetBytes(b []byte) (Element, error)
	// IsEqual returns true if the receiver is equal to X.
	IsEqual(X Element) bool
	// IsIdentity returns true if the receiver is the group's
	// identity element.
	IsIdentity() bool
	// GroupOrder returns the number of elements in the group (q).
	GroupOrder() *big.Int
	// FieldOrder returns the order of the field the group is defined
	// over (p for MODP backends; the curve's base field order for EC
	// backends).
	FieldOrder() *big.Int
	// String returns a string representation of the element, suitable
	// for logging and equality-checking in tests; not a stable wire
	// encoding (use MarshalBinary for that).
	String() string
	// BinaryMarshaler returns the canonical octet-string encoding of
	// the element, per the backend: unsigned big-endian minimal-length
	// integer for MODP, compressed point encoding for EC backends.
	encoding.BinaryMarshaler
}

// Group represents a prime-order group: either the multiplicative subgroup
// of (Z/pZ)* of order q (MODP backends) or a prime-order elliptic-curve
// group (Ristretto255, Pallas, Vesta).
type Group interface {
	// Name returns the name of the group, as accepted on the CLI.
	Name() string

	// Element creates a new, zero-valued group element.
	Element() Element
	// Generator creates a group element set to the group's generator g.
	Generator() Element
	// H creates a group element set to the second generator h, derived
	// deterministically so that no party knows log_g(h).
	H() Element
	// Identity creates a group element set to the group's identity.
	Identity() Element

	// Random returns a uniformly sampled element of the group.
	Random() Element
	// ScalarRandom returns a scalar drawn uniformly from [1, q) using a
	// cryptographically secure random source.
	ScalarRandom() *big.Int
	// ScalarFromBytes reduces b modulo q and returns the result. It is
	// a total function: every input, however long, maps to some
	// scalar in [0, q).
	ScalarFromBytes(b []byte) *big.Int

	// P returns the order of the field the group is defined over.
	P() *big.Int
	// N returns the prime order of the group (commonly called q).
	N() *big.Int
}
