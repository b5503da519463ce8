package codec

import (
	"github.com/fsnow/duel-replay/pkg/duel"
)

// Query item flags as written by the core
const (
	QueryCode        uint32 = 0x1
	QueryPosition    uint32 = 0x2
	QueryAlias       uint32 = 0x4
	QueryType        uint32 = 0x8
	QueryLevel       uint32 = 0x10
	QueryRank        uint32 = 0x20
	QueryAttribute   uint32 = 0x40
	QueryRace        uint32 = 0x80
	QueryAttack      uint32 = 0x100
	QueryDefense     uint32 = 0x200
	QueryBaseAttack  uint32 = 0x400
	QueryBaseDefense uint32 = 0x800
	QueryReason      uint32 = 0x1000
	QueryReasonCard  uint32 = 0x2000
	QueryEquipCard   uint32 = 0x4000
	QueryTargetCard  uint32 = 0x8000
	QueryOverlayCard uint32 = 0x10000
	QueryCounters    uint32 = 0x20000
	QueryOwner       uint32 = 0x40000
	QueryStatus      uint32 = 0x80000
	QueryIsPublic    uint32 = 0x100000
	QueryLScale      uint32 = 0x200000
	QueryRScale      uint32 = 0x400000
	QueryLink        uint32 = 0x800000
	QueryIsHidden    uint32 = 0x1000000
	QueryCover       uint32 = 0x2000000
	QueryEnd         uint32 = 0x80000000
)

// readQuery parses one card query block.
//
// Layout: repeated {size u16, flag u32, payload [size-4]byte} up to an item
// whose flag is QueryEnd. A block made of a single zero size marks an empty
// zone; ok is false in that case.
func readQuery(w *wire) (d duel.QueryData, ok bool) {
	first := true
	for !w.short() {
		size := int(w.u16())
		if size == 0 && first {
			return d, false
		}
		first = false
		if size < 4 {
			// corrupt item; make the message length check fail
			w.off = len(w.buf) + 1
			return d, false
		}
		flag := w.u32()
		if flag == QueryEnd {
			w.take(size - 4)
			return d, true
		}
		p := &wire{buf: w.take(size - 4)}
		if w.short() {
			return d, false
		}
		readQueryItem(&d, flag, p)
	}
	return d, false
}

func readQueryItem(d *duel.QueryData, flag uint32, p *wire) {
	switch flag {
	case QueryCode:
		d.Code = p.u32()
		d.Fields |= duel.FieldCode
	case QueryPosition:
		d.Position = p.u32()
		d.Fields |= duel.FieldPosition
	case QueryAlias:
		d.Alias = p.u32()
		d.Fields |= duel.FieldAlias
	case QueryType:
		d.Type = p.u32()
		d.Fields |= duel.FieldType
	case QueryLevel:
		d.Level = p.u32()
		d.Fields |= duel.FieldLevel
	case QueryRank:
		d.XyzRank = p.u32()
		d.Fields |= duel.FieldXyzRank
	case QueryAttribute:
		d.Attribute = p.u32()
		d.Fields |= duel.FieldAttribute
	case QueryRace:
		if len(p.buf) >= 8 {
			d.Race = p.u64()
		} else {
			d.Race = uint64(p.u32())
		}
		d.Fields |= duel.FieldRace
	case QueryAttack:
		d.Atk = int32(p.u32())
		d.Fields |= duel.FieldAtk
	case QueryDefense:
		d.Def = int32(p.u32())
		d.Fields |= duel.FieldDef
	case QueryBaseAttack:
		d.BaseAtk = int32(p.u32())
		d.Fields |= duel.FieldBaseAtk
	case QueryBaseDefense:
		d.BaseDef = int32(p.u32())
		d.Fields |= duel.FieldBaseDef
	case QueryEquipCard:
		d.Equipped, _ = p.locInfo()
		d.Fields |= duel.FieldEquipped
	case QueryTargetCard:
		n := p.count(10)
		d.Relations = make([]duel.Place, 0, n)
		for i := 0; i < n && !p.short(); i++ {
			pl, _ := p.locInfo()
			d.Relations = append(d.Relations, pl)
		}
		d.Fields |= duel.FieldRelations
	case QueryOverlayCard:
		n := p.count(4)
		d.Materials = make([]uint32, 0, n)
		for i := 0; i < n && !p.short(); i++ {
			d.Materials = append(d.Materials, p.u32())
		}
		d.Fields |= duel.FieldMaterials
	case QueryCounters:
		n := p.count(4)
		d.Counters = make([]duel.Counter, 0, n)
		for i := 0; i < n && !p.short(); i++ {
			v := p.u32()
			d.Counters = append(d.Counters, duel.Counter{Type: uint16(v), Count: uint16(v >> 16)})
		}
		d.Fields |= duel.FieldCounters
	case QueryOwner:
		d.Owner = p.u8()
		d.Fields |= duel.FieldOwner
	case QueryStatus:
		d.Status = p.u32()
		d.Fields |= duel.FieldStatus
	case QueryIsPublic:
		d.IsPublic = p.u8() != 0
		d.Fields |= duel.FieldIsPublic
	case QueryLScale:
		d.PendLScale = p.u32()
		d.Fields |= duel.FieldPendLScale
	case QueryRScale:
		d.PendRScale = p.u32()
		d.Fields |= duel.FieldPendRScale
	case QueryLink:
		d.LinkRate = p.u32()
		d.LinkArrow = p.u32()
		d.Fields |= duel.FieldLinkRate | duel.FieldLinkArrow
	case QueryIsHidden:
		d.IsHidden = p.u8() != 0
		d.Fields |= duel.FieldIsHidden
	case QueryCover:
		d.Cover = p.u32()
		d.Fields |= duel.FieldCover
	}
	// QueryReason, QueryReasonCard and unknown flags are skipped by size
}
