package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/duel"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <replay-file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAnalyzes a yrpX replay and provides duel statistics.\n")
		os.Exit(1)
	}

	filePath := os.Args[1]

	fmt.Printf("Analyzing replay: %s\n", filePath)
	fmt.Println(strings.Repeat("=", 80))

	file, err := reader.OpenReplayFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay: %v\n", err)
		os.Exit(2)
	}
	r, err := replay.Decode(file.Data(), replay.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding replay: %v\n", err)
		os.Exit(1)
	}

	stats := &Statistics{
		messageTypes: make(map[uint8]int),
		eventNames:   make(map[string]int),
		winner:       -1,
	}
	for _, b := range r.Blocks {
		stats.analyze(b)
	}

	fmt.Println(replay.FormatNames(r.Names))
	if r.Header.Magic == reader.MagicYRPX {
		fmt.Println(replay.FormatDate(r.Header.Seed, nil))
	}
	stats.print()
}

type Statistics struct {
	totalMessages int
	events        int
	queryMessages int
	queries       int
	turns         int
	chains        int
	xyzResolved   int
	winner        int

	messageTypes map[uint8]int
	eventNames   map[string]int

	players [2]PlayerStats
}

type PlayerStats struct {
	draws     int
	summons   int
	damage    uint64
	recovered uint64
	paid      uint64
	finalLP   uint32
}

func (s *Statistics) player(p uint8) *PlayerStats {
	return &s.players[p&1]
}

func (s *Statistics) analyze(b decoder.Block) {
	m := b.Msg
	s.totalMessages++
	s.messageTypes[m.Type]++
	s.xyzResolved += len(m.XyzResolved)

	if len(m.Queries) > 0 {
		s.queryMessages++
		s.queries += len(m.Queries)
	}
	if !m.IsEvent() {
		return
	}
	s.events++
	s.eventNames[m.Event.EventName()]++

	switch ev := m.Event.(type) {
	case *duel.DuelStart:
		s.players[0].finalLP = ev.LP[0]
		s.players[1].finalLP = ev.LP[1]
	case *duel.NewTurn:
		s.turns++
	case *duel.Draw:
		s.player(ev.Player).draws += len(ev.Cards)
	case *duel.Summon:
		s.player(ev.Place.Con).summons++
	case *duel.Chaining:
		s.chains++
	case *duel.LPChange:
		p := s.player(ev.Player)
		switch ev.Kind {
		case duel.LPDamage:
			p.damage += uint64(ev.Amount)
			p.finalLP = subLP(p.finalLP, ev.Amount)
		case duel.LPPay:
			p.paid += uint64(ev.Amount)
			p.finalLP = subLP(p.finalLP, ev.Amount)
		case duel.LPRecover:
			p.recovered += uint64(ev.Amount)
			p.finalLP += ev.Amount
		case duel.LPUpdate:
			p.finalLP = ev.Amount
		}
	case *duel.Win:
		s.winner = int(ev.Player)
	}
}

func subLP(lp, amount uint32) uint32 {
	if amount > lp {
		return 0
	}
	return lp - amount
}

func (s *Statistics) print() {
	fmt.Println("\n=== OVERALL STATISTICS ===")
	fmt.Printf("Total messages:   %d\n", s.totalMessages)
	fmt.Printf("Events:           %d\n", s.events)
	fmt.Printf("Query messages:   %d (%d cards)\n", s.queryMessages, s.queries)
	fmt.Printf("Turns:            %d\n", s.turns)
	fmt.Printf("Chain links:      %d\n", s.chains)
	fmt.Printf("Xyz resolutions:  %d\n", s.xyzResolved)
	if s.winner >= 0 {
		fmt.Printf("Winner:           player %d\n", s.winner)
	} else {
		fmt.Printf("Winner:           (none recorded)\n")
	}

	fmt.Println("\n=== PLAYER STATISTICS ===")
	fmt.Printf("%-8s %8s %8s %10s %10s %10s %10s\n",
		"Player", "Draws", "Summons", "Damage", "Recovered", "Paid", "Final LP")
	fmt.Println(strings.Repeat("-", 70))
	for i, p := range s.players {
		fmt.Printf("%-8d %8d %8d %10d %10d %10d %10d\n",
			i, p.draws, p.summons, p.damage, p.recovered, p.paid, p.finalLP)
	}

	fmt.Println("\n=== MESSAGE DISTRIBUTION ===")
	printMessageStats(s.messageTypes)

	fmt.Println("\n=== EVENT DISTRIBUTION ===")
	printEventStats(s.eventNames)
}

func printMessageStats(types map[uint8]int) {
	type msgStat struct {
		code  uint8
		name  string
		count int
	}

	var stats []msgStat
	total := 0
	for code, count := range types {
		stats = append(stats, msgStat{code, codec.MessageName(code), count})
		total += count
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].code < stats[j].code
	})

	for _, stat := range stats {
		pct := float64(stat.count) / float64(total) * 100
		fmt.Printf("  %-25s (%3d): %6d messages (%5.1f%%)\n",
			stat.name, stat.code, stat.count, pct)
	}
}

func printEventStats(events map[string]int) {
	if len(events) == 0 {
		fmt.Println("  (No events decoded)")
		return
	}

	type eventStat struct {
		name  string
		count int
	}

	var stats []eventStat
	total := 0
	for name, count := range events {
		stats = append(stats, eventStat{name, count})
		total += count
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].name < stats[j].name
	})

	for _, stat := range stats {
		pct := float64(stat.count) / float64(total) * 100
		fmt.Printf("  %-30s: %6d (%5.1f%%)\n", stat.name, stat.count, pct)
	}
}
