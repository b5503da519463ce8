package codec

import "fmt"

// Core message types understood by DecodeOne
const (
	MsgRetry             uint8 = 1
	MsgHint              uint8 = 2
	MsgWaiting           uint8 = 3
	MsgStart             uint8 = 4
	MsgWin               uint8 = 5
	MsgUpdateData        uint8 = 6
	MsgUpdateCard        uint8 = 7
	MsgConfirmDeckTop    uint8 = 30
	MsgConfirmCards      uint8 = 31
	MsgShuffleDeck       uint8 = 32
	MsgShuffleHand       uint8 = 33
	MsgRefreshDeck       uint8 = 34
	MsgSwapGraveDeck     uint8 = 35
	MsgShuffleSetCard    uint8 = 36
	MsgReverseDeck       uint8 = 37
	MsgDeckTop           uint8 = 38
	MsgShuffleExtra      uint8 = 39
	MsgNewTurn           uint8 = 40
	MsgNewPhase          uint8 = 41
	MsgMove              uint8 = 50
	MsgPosChange         uint8 = 53
	MsgSet               uint8 = 54
	MsgSwap              uint8 = 55
	MsgFieldDisabled     uint8 = 56
	MsgSummoning         uint8 = 60
	MsgSummoned          uint8 = 61
	MsgSpSummoning       uint8 = 62
	MsgSpSummoned        uint8 = 63
	MsgFlipSummoning     uint8 = 64
	MsgFlipSummoned      uint8 = 65
	MsgChaining          uint8 = 70
	MsgChained           uint8 = 71
	MsgChainSolving      uint8 = 72
	MsgChainSolved       uint8 = 73
	MsgChainEnd          uint8 = 74
	MsgChainNegated      uint8 = 75
	MsgChainDisabled     uint8 = 76
	MsgCardSelected      uint8 = 80
	MsgRandomSelected    uint8 = 81
	MsgBecomeTarget      uint8 = 83
	MsgDraw              uint8 = 90
	MsgDamage            uint8 = 91
	MsgRecover           uint8 = 92
	MsgEquip             uint8 = 93
	MsgLPUpdate          uint8 = 94
	MsgUnequip           uint8 = 95
	MsgCardTarget        uint8 = 96
	MsgCancelTarget      uint8 = 97
	MsgPayLPCost         uint8 = 100
	MsgAddCounter        uint8 = 101
	MsgRemoveCounter     uint8 = 102
	MsgAttack            uint8 = 110
	MsgBattle            uint8 = 111
	MsgAttackDisabled    uint8 = 112
	MsgDamageStepStart   uint8 = 113
	MsgDamageStepEnd     uint8 = 114
	MsgMissedEffect      uint8 = 120
	MsgBeChainTarget     uint8 = 121
	MsgCreateRelation    uint8 = 122
	MsgReleaseRelation   uint8 = 123
	MsgTossCoin          uint8 = 130
	MsgTossDice          uint8 = 131
	MsgRockPaperScissors uint8 = 132
	MsgHandRes           uint8 = 133
	MsgCardHint          uint8 = 160
	MsgTagSwap           uint8 = 161
	MsgReloadField       uint8 = 162
	MsgPlayerHint        uint8 = 165
	MsgMatchKill         uint8 = 170

	// MsgOldReplayMode marks the start of an embedded legacy replay
	MsgOldReplayMode uint8 = 231
)

var messageNames = map[uint8]string{
	MsgRetry:             "retry",
	MsgHint:              "hint",
	MsgWaiting:           "waiting",
	MsgStart:             "start",
	MsgWin:               "win",
	MsgUpdateData:        "update_data",
	MsgUpdateCard:        "update_card",
	MsgConfirmDeckTop:    "confirm_decktop",
	MsgConfirmCards:      "confirm_cards",
	MsgShuffleDeck:       "shuffle_deck",
	MsgShuffleHand:       "shuffle_hand",
	MsgRefreshDeck:       "refresh_deck",
	MsgSwapGraveDeck:     "swap_grave_deck",
	MsgShuffleSetCard:    "shuffle_set_card",
	MsgReverseDeck:       "reverse_deck",
	MsgDeckTop:           "deck_top",
	MsgShuffleExtra:      "shuffle_extra",
	MsgNewTurn:           "new_turn",
	MsgNewPhase:          "new_phase",
	MsgMove:              "move",
	MsgPosChange:         "pos_change",
	MsgSet:               "set",
	MsgSwap:              "swap",
	MsgFieldDisabled:     "field_disabled",
	MsgSummoning:         "summoning",
	MsgSummoned:          "summoned",
	MsgSpSummoning:       "spsummoning",
	MsgSpSummoned:        "spsummoned",
	MsgFlipSummoning:     "flipsummoning",
	MsgFlipSummoned:      "flipsummoned",
	MsgChaining:          "chaining",
	MsgChained:           "chained",
	MsgChainSolving:      "chain_solving",
	MsgChainSolved:       "chain_solved",
	MsgChainEnd:          "chain_end",
	MsgChainNegated:      "chain_negated",
	MsgChainDisabled:     "chain_disabled",
	MsgCardSelected:      "card_selected",
	MsgRandomSelected:    "random_selected",
	MsgBecomeTarget:      "become_target",
	MsgDraw:              "draw",
	MsgDamage:            "damage",
	MsgRecover:           "recover",
	MsgEquip:             "equip",
	MsgLPUpdate:          "lpupdate",
	MsgUnequip:           "unequip",
	MsgCardTarget:        "card_target",
	MsgCancelTarget:      "cancel_target",
	MsgPayLPCost:         "pay_lpcost",
	MsgAddCounter:        "add_counter",
	MsgRemoveCounter:     "remove_counter",
	MsgAttack:            "attack",
	MsgBattle:            "battle",
	MsgAttackDisabled:    "attack_disabled",
	MsgDamageStepStart:   "damage_step_start",
	MsgDamageStepEnd:     "damage_step_end",
	MsgMissedEffect:      "missed_effect",
	MsgBeChainTarget:     "be_chain_target",
	MsgCreateRelation:    "create_relation",
	MsgReleaseRelation:   "release_relation",
	MsgTossCoin:          "toss_coin",
	MsgTossDice:          "toss_dice",
	MsgRockPaperScissors: "rock_paper_scissors",
	MsgHandRes:           "hand_res",
	MsgCardHint:          "card_hint",
	MsgTagSwap:           "tag_swap",
	MsgReloadField:       "reload_field",
	MsgPlayerHint:        "player_hint",
	MsgMatchKill:         "match_kill",
	MsgOldReplayMode:     "old_replay_mode",
}

// MessageName returns a readable name for a message type
func MessageName(t uint8) string {
	if name, ok := messageNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// MessageType looks up a message type by the name MessageName returns
func MessageType(name string) (uint8, bool) {
	for t, n := range messageNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}
