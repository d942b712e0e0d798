package group

import (
	"crypto/rand"
	"math/big"

	circlgroup "github.com/cloudflare/circl/group"
)

// hDomainTag is hashed to produce each elliptic-curve backend's second
// generator h, so that log_g(h) is unknown to every party.
const hDomainTag = "sigma-auth/h"

type r255Group struct {
	fieldOrder *big.Int
	curveOrder *big.Int
	name       string
}

type r255Point struct {
	curve *r255Group
	val   circlgroup.Element
}

func (g *r255Group) Name() string {
	return g.name
}

func (g *r255Group) P() *big.Int {
	return g.fieldOrder
}

func (g *r255Group) N() *big.Int {
	return g.curveOrder
}

func (g *r255Group) Generator() Element {
	return &r255Point{
		curve: g,
		val:   circlgroup.Ristretto255.Generator(),
	}
}

func (g *r255Group) H() Element {
	return &r255Point{
		curve: g,
		val:   circlgroup.Ristretto255.HashToElement([]byte(hDomainTag), []byte("ristretto255")),
	}
}

func (g *r255Group) Identity() Element {
	return &r255Point{
		curve: g,
		val:   circlgroup.Ristretto255.Identity(),
	}
}

func (g *r255Group) Random() Element {
	return &r255Point{
		curve: g,
		val:   circlgroup.Ristretto255.RandomElement(rand.Reader),
	}
}

func (g *r255Group) ScalarRandom() *big.Int {
	bound := new(big.Int).Sub(g.curveOrder, big.NewInt(1))
	r, err := rand.Int(rand.Reader, bound)
	if err != nil {
		panic("group: csprng failure: " + err.Error())
	}
	return r.Add(r, big.NewInt(1))
}

func (g *r255Group) ScalarFromBytes(b []byte) *big.Int {
	s := new(big.Int).SetBytes(b)
	return s.Mod(s, g.curveOrder)
}

func (g *r255Group) Element() Element {
	return &r255Point{
		curve: g,
		val:   circlgroup.Ristretto255.NewElement(),
	}
}

func (e *r255Point) check(a Element) *r255Point {
	ey, ok := a.(*r255Point)
	if !ok {
		panic("group: incompatible element type")
	}
	return ey
}

func (e *r255Point) Add(a Element, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	e.val = circlgroup.Ristretto255.NewElement().Add(ca.val, cb.val)
	return e
}

func (e *r255Point) Subtract(a Element, b Element) Element {
	tmp := e.curve.Identity()
	tmp.Negate(b)
	e.Add(a, tmp)
	return e
}

func (e *r255Point) Negate(a Element) Element {
	ca := e.check(a)
	e.val = circlgroup.Ristretto255.NewElement().Neg(ca.val)
	return e
}

func (e *r255Point) IsEqual(b Element) bool {
	cb := e.check(b)
	return e.val.IsEqual(cb.val)
}

func (e *r255Point) Set(x Element) Element {
	ca := e.check(x)
	e.val = circlgroup.Ristretto255.NewElement().Set(ca.val)
	return e
}

func (e *r255Point) SetBytes(b []byte) (Element, error) {
	el := circlgroup.Ristretto255.NewElement()
	if err := el.UnmarshalBinary(b); err != nil {
		return e, ErrDeserialization
	}
	e.val = el
	return e, nil
}

func (e *r255Point) Scale(x Element, s *big.Int) Element {
	ex := e.check(x)
	scalar := circlgroup.Ristretto255.NewScalar()
	e.val = circlgroup.Ristretto255.NewElement().Mul(ex.val, scalar.SetBigInt(s))
	return e
}

func (e *r255Point) BaseScale(s *big.Int) Element {
	scalar := circlgroup.Ristretto255.NewScalar()
	e.val = circlgroup.Ristretto255.NewElement().MulGen(scalar.SetBigInt(s))
	return e
}

func (e *r255Point) GroupOrder() *big.Int {
	return e.curve.curveOrder
}

func (e *r255Point) FieldOrder() *big.Int {
	return e.curve.fieldOrder
}

func (e *r255Point) String() string {
	tmp, _ := e.val.MarshalBinary()
	return string(tmp)
}

func (e *r255Point) IsIdentity() bool {
	return e.val.IsIdentity()
}

func (e *r255Point) MarshalBinary() ([]byte, error) {
	return e.val.MarshalBinary()
}

// Ristretto255 returns the prime-order group formed by the Ristretto255
// encoding of Curve25519.
func Ristretto255() Group {
	p, _ := new(big.Int).SetString("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed", 16)
	n, _ := new(big.Int).SetString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)

	G := new(r255Group)
	G.fieldOrder = p
	G.curveOrder = n
	G.name = "ec25519"
	return G
}
