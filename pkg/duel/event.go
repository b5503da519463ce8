package duel

// Event is a board-changing message decoded from the core
type Event interface {
	// EventName is the stable name used in serialized output
	EventName() string
}

// Msg is one decoded core message: an event, card queries, or both
type Msg struct {
	Type        uint8
	Event       Event
	Queries     []Query
	XyzResolved []XyzLink
}

// IsEvent reports whether the message carries an event
func (m *Msg) IsEvent() bool {
	return m.Event != nil
}

// XyzLink ties a zone whose monster left the field (or whose materials
// were awaited) to the place the monster went to
type XyzLink struct {
	Zone Place `json:"zone" bson:"zone"`
	To   Place `json:"to" bson:"to"`
}

// DuelStart resets the board
type DuelStart struct {
	DuelType  uint8     `json:"duel_type" bson:"duel_type"`
	LP        [2]uint32 `json:"lp" bson:"lp"`
	DeckSize  [2]uint16 `json:"deck_size" bson:"deck_size"`
	ExtraSize [2]uint16 `json:"extra_size" bson:"extra_size"`
}

// Win ends the duel
type Win struct {
	Player      uint8  `json:"player" bson:"player"`
	Reason      uint8  `json:"reason" bson:"reason"`
	MatchReason uint32 `json:"match_reason" bson:"match_reason"`
}

// RevealedCard is a card shown to a player
type RevealedCard struct {
	Code  uint32 `json:"code" bson:"code"`
	Place Place  `json:"place" bson:"place"`
}

// ConfirmCards reveals cards to a player
type ConfirmCards struct {
	Player  uint8          `json:"player" bson:"player"`
	DeckTop bool           `json:"deck_top" bson:"deck_top"`
	Cards   []RevealedCard `json:"cards" bson:"cards"`
}

// Shuffle reorders a pile; Codes is empty for a deck shuffle
type Shuffle struct {
	Player uint8    `json:"player" bson:"player"`
	Loc    Loc      `json:"loc" bson:"loc"`
	Codes  []uint32 `json:"codes" bson:"codes"`
}

// DeckTop reveals the card Seq positions below the top of the deck
type DeckTop struct {
	Player   uint8  `json:"player" bson:"player"`
	Seq      uint32 `json:"seq" bson:"seq"`
	Code     uint32 `json:"code" bson:"code"`
	Position uint32 `json:"position" bson:"position"`
}

type NewTurn struct {
	Player uint8 `json:"player" bson:"player"`
}

type NewPhase struct {
	Phase uint16 `json:"phase" bson:"phase"`
}

// CardMove moves a card between two places. XyzLeft is set when the card
// is a material detached from a monster that already left its zone.
type CardMove struct {
	Code     uint32 `json:"code" bson:"code"`
	From     Place  `json:"from" bson:"from"`
	To       Place  `json:"to" bson:"to"`
	Position uint32 `json:"position" bson:"position"`
	Reason   uint32 `json:"reason" bson:"reason"`
	XyzLeft  *Place `json:"xyz_left,omitempty" bson:"xyz_left,omitempty"`
}

type PosChange struct {
	Code  uint32 `json:"code" bson:"code"`
	Place Place  `json:"place" bson:"place"`
	Prev  uint32 `json:"prev" bson:"prev"`
	Cur   uint32 `json:"cur" bson:"cur"`
}

type CardSet struct {
	Code     uint32 `json:"code" bson:"code"`
	Place    Place  `json:"place" bson:"place"`
	Position uint32 `json:"position" bson:"position"`
}

type CardSwap struct {
	Code1  uint32 `json:"code1" bson:"code1"`
	Place1 Place  `json:"place1" bson:"place1"`
	Code2  uint32 `json:"code2" bson:"code2"`
	Place2 Place  `json:"place2" bson:"place2"`
}

// FieldDisabled carries the bitmask of disabled zones
type FieldDisabled struct {
	Zones uint32 `json:"zones" bson:"zones"`
}

// SummonKind distinguishes normal, special and flip summons
type SummonKind uint8

const (
	SummonNormal SummonKind = iota
	SummonSpecial
	SummonFlip
)

func (k SummonKind) String() string {
	switch k {
	case SummonSpecial:
		return "special"
	case SummonFlip:
		return "flip"
	default:
		return "normal"
	}
}

type Summon struct {
	Kind     SummonKind `json:"kind" bson:"kind"`
	Code     uint32     `json:"code" bson:"code"`
	Place    Place      `json:"place" bson:"place"`
	Position uint32     `json:"position" bson:"position"`
}

type SummonDone struct {
	Kind SummonKind `json:"kind" bson:"kind"`
}

// Chaining puts a card effect on the chain
type Chaining struct {
	Code       uint32 `json:"code" bson:"code"`
	Place      Place  `json:"place" bson:"place"`
	Position   uint32 `json:"position" bson:"position"`
	ChainPlace Place  `json:"chain_place" bson:"chain_place"`
	Desc       uint64 `json:"desc" bson:"desc"`
	Count      uint32 `json:"count" bson:"count"`
}

// ChainStepKind is the chain transition a ChainStep reports
type ChainStepKind uint8

const (
	ChainChained ChainStepKind = iota
	ChainSolving
	ChainSolved
	ChainEnd
	ChainNegated
	ChainDisabled
)

func (k ChainStepKind) String() string {
	return [...]string{"chained", "solving", "solved", "end", "negated", "disabled"}[k]
}

type ChainStep struct {
	Kind  ChainStepKind `json:"kind" bson:"kind"`
	Count uint8         `json:"count" bson:"count"`
}

// DrawnCard is one card taken from the deck top
type DrawnCard struct {
	Code     uint32 `json:"code" bson:"code"`
	Position uint32 `json:"position" bson:"position"`
}

type Draw struct {
	Player uint8       `json:"player" bson:"player"`
	Cards  []DrawnCard `json:"cards" bson:"cards"`
}

// LPChangeKind says how an LPChange amount applies
type LPChangeKind uint8

const (
	LPDamage LPChangeKind = iota
	LPRecover
	LPUpdate
	LPPay
)

func (k LPChangeKind) String() string {
	return [...]string{"damage", "recover", "update", "pay"}[k]
}

type LPChange struct {
	Kind   LPChangeKind `json:"kind" bson:"kind"`
	Player uint8        `json:"player" bson:"player"`
	Amount uint32       `json:"amount" bson:"amount"`
}

// Equip attaches Card to Target; a nil Target unequips
type Equip struct {
	Card   Place  `json:"card" bson:"card"`
	Target *Place `json:"target,omitempty" bson:"target,omitempty"`
}

type Target struct {
	Card   Place `json:"card" bson:"card"`
	Target Place `json:"target" bson:"target"`
	Cancel bool  `json:"cancel" bson:"cancel"`
}

// CounterChange adds or removes counters on a card
type CounterChange struct {
	Type   uint16 `json:"type" bson:"type"`
	Place  Place  `json:"place" bson:"place"`
	Count  uint16 `json:"count" bson:"count"`
	Remove bool   `json:"remove" bson:"remove"`
}

// Attack declares an attack; a nil Target is a direct attack
type Attack struct {
	Attacker Place  `json:"attacker" bson:"attacker"`
	Target   *Place `json:"target,omitempty" bson:"target,omitempty"`
}

type Battle struct {
	Attacker     Place  `json:"attacker" bson:"attacker"`
	AttackerAtk  uint32 `json:"attacker_atk" bson:"attacker_atk"`
	AttackerDef  uint32 `json:"attacker_def" bson:"attacker_def"`
	AttackerDies bool   `json:"attacker_destroyed" bson:"attacker_destroyed"`
	Target       Place  `json:"target" bson:"target"`
	TargetAtk    uint32 `json:"target_atk" bson:"target_atk"`
	TargetDef    uint32 `json:"target_def" bson:"target_def"`
	TargetDies   bool   `json:"target_destroyed" bson:"target_destroyed"`
}

// BattleStepKind is the battle transition a BattleStep reports
type BattleStepKind uint8

const (
	AttackDisabled BattleStepKind = iota
	DamageStepStart
	DamageStepEnd
)

func (k BattleStepKind) String() string {
	return [...]string{"attack_disabled", "damage_step_start", "damage_step_end"}[k]
}

type BattleStep struct {
	Kind BattleStepKind `json:"kind" bson:"kind"`
}

// Toss reports coin or dice results
type Toss struct {
	Player  uint8   `json:"player" bson:"player"`
	Dice    bool    `json:"dice" bson:"dice"`
	Results []uint8 `json:"results" bson:"results"`
}

// SwapGraveDeck exchanges a player's graveyard and main deck. ToExtra lists
// the indexes of former graveyard cards that went to the extra deck
// instead.
type SwapGraveDeck struct {
	Player   uint8    `json:"player" bson:"player"`
	DeckSize uint32   `json:"deck_size" bson:"deck_size"`
	ToExtra  []uint32 `json:"to_extra" bson:"to_extra"`
}

// ShuffleSetCards reorders face-down cards; the card at From[i] ends up
// at To[i]
type ShuffleSetCards struct {
	Loc  Loc     `json:"loc" bson:"loc"`
	From []Place `json:"from" bson:"from"`
	To   []Place `json:"to" bson:"to"`
}

// DeckReversed turns both decks upside down
type DeckReversed struct{}

// CardsSelected reports the cards picked for an effect
type CardsSelected struct {
	Random bool    `json:"random" bson:"random"`
	Player uint8   `json:"player" bson:"player"`
	Cards  []Place `json:"cards" bson:"cards"`
}

// BecomeTarget reports cards targeted by an effect or by a chain link
type BecomeTarget struct {
	Chain bool    `json:"chain" bson:"chain"`
	Cards []Place `json:"cards" bson:"cards"`
}

type MissedEffect struct {
	Place Place  `json:"place" bson:"place"`
	Code  uint32 `json:"code" bson:"code"`
}

// Hand values of a rock-paper-scissors round
const (
	HandRock     uint8 = 1
	HandScissors uint8 = 2
	HandPaper    uint8 = 3
)

type HandResult struct {
	Hands [2]uint8 `json:"hands" bson:"hands"`
}

// TagSwap replaces the active duelist of a team. The deck is rebuilt from
// its size; hand and extra deck are listed card by card.
type TagSwap struct {
	Player      uint8       `json:"player" bson:"player"`
	DeckSize    uint32      `json:"deck_size" bson:"deck_size"`
	ExtraSize   uint32      `json:"extra_size" bson:"extra_size"`
	ExtraFaceUp uint32      `json:"extra_face_up" bson:"extra_face_up"`
	DeckTopCode uint32      `json:"deck_top_code" bson:"deck_top_code"`
	Hand        []DrawnCard `json:"hand" bson:"hand"`
	Extra       []DrawnCard `json:"extra" bson:"extra"`
}

// ReloadedZone is one zone of a reloaded field
type ReloadedZone struct {
	Occupied  bool   `json:"occupied" bson:"occupied"`
	Position  uint32 `json:"position" bson:"position"`
	Materials uint32 `json:"materials" bson:"materials"`
}

type ReloadedSide struct {
	LP          uint32                   `json:"lp" bson:"lp"`
	MZone       [MZoneCount]ReloadedZone `json:"mzone" bson:"mzone"`
	SZone       [SZoneCount]ReloadedZone `json:"szone" bson:"szone"`
	DeckSize    uint32                   `json:"deck_size" bson:"deck_size"`
	HandSize    uint32                   `json:"hand_size" bson:"hand_size"`
	GraveSize   uint32                   `json:"grave_size" bson:"grave_size"`
	RemovedSize uint32                   `json:"removed_size" bson:"removed_size"`
	ExtraSize   uint32                   `json:"extra_size" bson:"extra_size"`
	ExtraFaceUp uint32                   `json:"extra_face_up" bson:"extra_face_up"`
}

// ReloadedChain is a chain link still open when the field was reloaded
type ReloadedChain struct {
	Code       uint32 `json:"code" bson:"code"`
	Place      Place  `json:"place" bson:"place"`
	ChainPlace Place  `json:"chain_place" bson:"chain_place"`
	Desc       uint64 `json:"desc" bson:"desc"`
}

// FieldReload replaces the whole board, as sent when a duel is resumed
type FieldReload struct {
	DuelRule uint8           `json:"duel_rule" bson:"duel_rule"`
	Sides    [2]ReloadedSide `json:"sides" bson:"sides"`
	Chains   []ReloadedChain `json:"chains" bson:"chains"`
}

func (*DuelStart) EventName() string { return "duel_start" }
func (*Win) EventName() string { return "win" }
func (*ConfirmCards) EventName() string { return "confirm_cards" }
func (*Shuffle) EventName() string { return "shuffle" }
func (*DeckTop) EventName() string { return "deck_top" }
func (*NewTurn) EventName() string { return "new_turn" }
func (*NewPhase) EventName() string { return "new_phase" }
func (*CardMove) EventName() string { return "card_move" }
func (*PosChange) EventName() string { return "pos_change" }
func (*CardSet) EventName() string { return "card_set" }
func (*CardSwap) EventName() string { return "card_swap" }
func (*FieldDisabled) EventName() string { return "field_disabled" }
func (*Summon) EventName() string { return "summon" }
func (*SummonDone) EventName() string { return "summon_done" }
func (*Chaining) EventName() string { return "chaining" }
func (*ChainStep) EventName() string { return "chain_step" }
func (*Draw) EventName() string { return "draw" }
func (*LPChange) EventName() string { return "lp_change" }
func (*Equip) EventName() string { return "equip" }
func (*Target) EventName() string { return "target" }
func (*CounterChange) EventName() string { return "counter" }
func (*Attack) EventName() string { return "attack" }
func (*Battle) EventName() string { return "battle" }
func (*BattleStep) EventName() string { return "battle_step" }
func (*Toss) EventName() string { return "toss" }
func (*SwapGraveDeck) EventName() string { return "swap_grave_deck" }
func (*ShuffleSetCards) EventName() string { return "shuffle_set_cards" }
func (*DeckReversed) EventName() string { return "deck_reversed" }
func (*CardsSelected) EventName() string { return "cards_selected" }
func (*BecomeTarget) EventName() string { return "become_target" }
func (*MissedEffect) EventName() string { return "missed_effect" }
func (*HandResult) EventName() string { return "hand_result" }
func (*TagSwap) EventName() string { return "tag_swap" }
func (*FieldReload) EventName() string { return "field_reload" }
