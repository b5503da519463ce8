// Package board mirrors the duel state well enough to size card-query
// sections and to drop query fields that repeat what is already known.
package board

import (
	"slices"

	"github.com/fsnow/duel-replay/pkg/duel"
)

// Value is the last known value of one card attribute
type Value[T any] struct {
	v     T
	known bool
}

// Get returns the value and whether it has been observed
func (v *Value[T]) Get() (T, bool) {
	return v.v, v.known
}

func (v *Value[T]) Known() bool {
	return v.known
}

func (v *Value[T]) Set(x T) {
	v.v = x
	v.known = true
}

// Reset forgets the value
func (v *Value[T]) Reset() {
	var zero T
	v.v = zero
	v.known = false
}

// observe stores x and reports whether it was already known with the same
// value
func observe[T comparable](v *Value[T], x T) bool {
	hit := v.known && v.v == x
	v.Set(x)
	return hit
}

func observeSlice[T comparable](v *Value[[]T], x []T) bool {
	hit := v.known && slices.Equal(v.v, x)
	v.Set(slices.Clone(x))
	return hit
}

// Card is what the mirror knows about one card
type Card struct {
	Owner      Value[uint8]
	IsPublic   Value[bool]
	IsHidden   Value[bool]
	Position   Value[uint32]
	Cover      Value[uint32]
	Status     Value[uint32]
	Code       Value[uint32]
	Alias      Value[uint32]
	Type       Value[uint32]
	Level      Value[uint32]
	XyzRank    Value[uint32]
	Attribute  Value[uint32]
	Race       Value[uint64]
	BaseAtk    Value[int32]
	Atk        Value[int32]
	BaseDef    Value[int32]
	Def        Value[int32]
	PendLScale Value[uint32]
	PendRScale Value[uint32]
	LinkRate   Value[uint32]
	LinkArrow  Value[uint32]
	Counters   Value[[]duel.Counter]
	Equipped   Value[duel.Place]
	Relations  Value[[]duel.Place]
}

// forgetState drops everything that does not survive a change of location
func (c *Card) forgetState() {
	owner := c.Owner
	code := c.Code
	*c = Card{Owner: owner, Code: code}
}

// ParseQuery folds a query into the card and returns the fields whose
// value was already known and unchanged
func (c *Card) ParseQuery(d *duel.QueryData) duel.QueryField {
	var hits duel.QueryField
	mark := func(f duel.QueryField, hit bool) {
		if hit {
			hits |= f
		}
	}
	for _, f := range duel.AllFields() {
		if !d.Has(f) {
			continue
		}
		switch f {
		case duel.FieldOwner:
			mark(f, observe(&c.Owner, d.Owner))
		case duel.FieldIsPublic:
			mark(f, observe(&c.IsPublic, d.IsPublic))
		case duel.FieldIsHidden:
			mark(f, observe(&c.IsHidden, d.IsHidden))
		case duel.FieldPosition:
			mark(f, observe(&c.Position, d.Position))
		case duel.FieldCover:
			mark(f, observe(&c.Cover, d.Cover))
		case duel.FieldStatus:
			mark(f, observe(&c.Status, d.Status))
		case duel.FieldCode:
			mark(f, observe(&c.Code, d.Code))
		case duel.FieldAlias:
			mark(f, observe(&c.Alias, d.Alias))
		case duel.FieldType:
			mark(f, observe(&c.Type, d.Type))
		case duel.FieldLevel:
			mark(f, observe(&c.Level, d.Level))
		case duel.FieldXyzRank:
			mark(f, observe(&c.XyzRank, d.XyzRank))
		case duel.FieldAttribute:
			mark(f, observe(&c.Attribute, d.Attribute))
		case duel.FieldRace:
			mark(f, observe(&c.Race, d.Race))
		case duel.FieldBaseAtk:
			mark(f, observe(&c.BaseAtk, d.BaseAtk))
		case duel.FieldAtk:
			mark(f, observe(&c.Atk, d.Atk))
		case duel.FieldBaseDef:
			mark(f, observe(&c.BaseDef, d.BaseDef))
		case duel.FieldDef:
			mark(f, observe(&c.Def, d.Def))
		case duel.FieldPendLScale:
			mark(f, observe(&c.PendLScale, d.PendLScale))
		case duel.FieldPendRScale:
			mark(f, observe(&c.PendRScale, d.PendRScale))
		case duel.FieldLinkRate:
			mark(f, observe(&c.LinkRate, d.LinkRate))
		case duel.FieldLinkArrow:
			mark(f, observe(&c.LinkArrow, d.LinkArrow))
		case duel.FieldCounters:
			mark(f, observeSlice(&c.Counters, d.Counters))
		case duel.FieldEquipped:
			mark(f, observe(&c.Equipped, d.Equipped))
		case duel.FieldRelations:
			mark(f, observeSlice(&c.Relations, d.Relations))
		}
	}
	return hits & duel.CachedFields
}
