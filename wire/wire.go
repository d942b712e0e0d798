// Package wire maps group elements and scalars to and from the octet
// strings carried on the wire, per the backend's canonical encoding:
// unsigned big-endian minimal-length integers for MODP groups, compressed
// point encoding for the elliptic-curve backends.
package wire

import (
	"math/big"

	"github.com/zkauthproto/sigma-auth/group"
)

// MarshalElement returns e's canonical octet-string encoding.
func MarshalElement(e group.Element) ([]byte, error) {
	return e.MarshalBinary()
}

// UnmarshalElement decodes b as an element of g, returning
// group.ErrDeserialization if b is not a valid encoding.
func UnmarshalElement(g group.Group, b []byte) (group.Element, error) {
	return g.Element().SetBytes(b)
}

// MarshalScalar returns s's unsigned big-endian minimal-length encoding.
func MarshalScalar(s *big.Int) []byte {
	return s.Bytes()
}

// UnmarshalScalar reduces b modulo g's group order and returns the
// result. It is a total function: every input, however long, decodes to
// some scalar in [0, q).
func UnmarshalScalar(g group.Group, b []byte) *big.Int {
	return g.ScalarFromBytes(b)
}
