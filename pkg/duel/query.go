package duel

// QueryField selects one attribute of a card query
type QueryField uint32

// Query fields. Every field up to and including FieldRelations is tracked
// by the query cache; FieldMaterials only feeds the board mirror.
const (
	FieldOwner QueryField = 1 << iota
	FieldIsPublic
	FieldIsHidden
	FieldPosition
	FieldCover
	FieldStatus
	FieldCode
	FieldAlias
	FieldType
	FieldLevel
	FieldXyzRank
	FieldAttribute
	FieldRace
	FieldBaseAtk
	FieldAtk
	FieldBaseDef
	FieldDef
	FieldPendLScale
	FieldPendRScale
	FieldLinkRate
	FieldLinkArrow
	FieldCounters
	FieldEquipped
	FieldRelations
	FieldMaterials

	// CachedFields is the set of fields the query cache may omit
	CachedFields = FieldMaterials - 1
)

var fieldNames = [...]string{
	"owner", "is_public", "is_hidden", "position", "cover", "status",
	"code", "alias", "type", "level", "xyz_rank", "attribute", "race",
	"base_atk", "atk", "base_def", "def", "pend_l_scale", "pend_r_scale",
	"link_rate", "link_arrow", "counters", "equipped", "relations",
	"materials",
}

// AllFields lists every field in wire order
func AllFields() []QueryField {
	fields := make([]QueryField, len(fieldNames))
	for i := range fields {
		fields[i] = 1 << i
	}
	return fields
}

func (f QueryField) String() string {
	for i := range fieldNames {
		if f == 1<<i {
			return fieldNames[i]
		}
	}
	return "fields"
}

// Counter is one counter type placed on a card
type Counter struct {
	Type  uint16 `json:"type" bson:"type"`
	Count uint16 `json:"count" bson:"count"`
}

// QueryData holds the attributes reported for one card. Only fields set in
// Fields are meaningful.
type QueryData struct {
	Fields QueryField

	Owner      uint8
	IsPublic   bool
	IsHidden   bool
	Position   uint32
	Cover      uint32
	Status     uint32
	Code       uint32
	Alias      uint32
	Type       uint32
	Level      uint32
	XyzRank    uint32
	Attribute  uint32
	Race       uint64
	BaseAtk    int32
	Atk        int32
	BaseDef    int32
	Def        int32
	PendLScale uint32
	PendRScale uint32
	LinkRate   uint32
	LinkArrow  uint32
	Counters   []Counter
	Equipped   Place
	Relations  []Place
	Materials  []uint32
}

// Has reports whether f is present
func (d *QueryData) Has(f QueryField) bool {
	return d.Fields&f != 0
}

// Present lists the fields set in d in wire order
func (d *QueryData) Present() []QueryField {
	var fields []QueryField
	for _, f := range AllFields() {
		if d.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Clear removes every field in mask and zeroes its value
func (d *QueryData) Clear(mask QueryField) {
	for _, f := range AllFields() {
		if mask&f == 0 || !d.Has(f) {
			continue
		}
		switch f {
		case FieldOwner:
			d.Owner = 0
		case FieldIsPublic:
			d.IsPublic = false
		case FieldIsHidden:
			d.IsHidden = false
		case FieldPosition:
			d.Position = 0
		case FieldCover:
			d.Cover = 0
		case FieldStatus:
			d.Status = 0
		case FieldCode:
			d.Code = 0
		case FieldAlias:
			d.Alias = 0
		case FieldType:
			d.Type = 0
		case FieldLevel:
			d.Level = 0
		case FieldXyzRank:
			d.XyzRank = 0
		case FieldAttribute:
			d.Attribute = 0
		case FieldRace:
			d.Race = 0
		case FieldBaseAtk:
			d.BaseAtk = 0
		case FieldAtk:
			d.Atk = 0
		case FieldBaseDef:
			d.BaseDef = 0
		case FieldDef:
			d.Def = 0
		case FieldPendLScale:
			d.PendLScale = 0
		case FieldPendRScale:
			d.PendRScale = 0
		case FieldLinkRate:
			d.LinkRate = 0
		case FieldLinkArrow:
			d.LinkArrow = 0
		case FieldCounters:
			d.Counters = nil
		case FieldEquipped:
			d.Equipped = Place{}
		case FieldRelations:
			d.Relations = nil
		case FieldMaterials:
			d.Materials = nil
		}
	}
	d.Fields &^= mask
}

// Value returns the value of a single present field, or nil
func (d *QueryData) Value(f QueryField) any {
	if !d.Has(f) {
		return nil
	}
	switch f {
	case FieldOwner:
		return d.Owner
	case FieldIsPublic:
		return d.IsPublic
	case FieldIsHidden:
		return d.IsHidden
	case FieldPosition:
		return d.Position
	case FieldCover:
		return d.Cover
	case FieldStatus:
		return d.Status
	case FieldCode:
		return d.Code
	case FieldAlias:
		return d.Alias
	case FieldType:
		return d.Type
	case FieldLevel:
		return d.Level
	case FieldXyzRank:
		return d.XyzRank
	case FieldAttribute:
		return d.Attribute
	case FieldRace:
		return d.Race
	case FieldBaseAtk:
		return d.BaseAtk
	case FieldAtk:
		return d.Atk
	case FieldBaseDef:
		return d.BaseDef
	case FieldDef:
		return d.Def
	case FieldPendLScale:
		return d.PendLScale
	case FieldPendRScale:
		return d.PendRScale
	case FieldLinkRate:
		return d.LinkRate
	case FieldLinkArrow:
		return d.LinkArrow
	case FieldCounters:
		return d.Counters
	case FieldEquipped:
		return d.Equipped
	case FieldRelations:
		return d.Relations
	case FieldMaterials:
		return d.Materials
	}
	return nil
}

// Query is the state of one card as reported by the core
type Query struct {
	Place Place
	Data  QueryData
}
