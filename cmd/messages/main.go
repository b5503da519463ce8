package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/fsnow/duel-replay/pkg/codec"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <replay-file> [filter] [limit]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nShows the decoded duel messages.\n")
		fmt.Fprintf(os.Stderr, "\nFilters:\n")
		fmt.Fprintf(os.Stderr, "  all         - Show all messages (default)\n")
		fmt.Fprintf(os.Stderr, "  events      - Show only messages carrying a board event\n")
		fmt.Fprintf(os.Stderr, "  queries     - Show only messages carrying card queries\n")
		fmt.Fprintf(os.Stderr, "  type:X      - Show messages of type X (e.g., type:move)\n")
		os.Exit(1)
	}

	filePath := os.Args[1]
	filter := "all"
	if len(os.Args) >= 3 {
		filter = os.Args[2]
	}
	maxMessages := 50 // Limit output
	if len(os.Args) >= 4 {
		fmt.Sscanf(os.Args[3], "%d", &maxMessages)
	}

	if strings.HasPrefix(filter, "type:") {
		name := strings.TrimPrefix(filter, "type:")
		if _, ok := codec.MessageType(name); !ok {
			fmt.Fprintf(os.Stderr, "Unknown message type: %s\n", name)
			os.Exit(1)
		}
	}

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

	fmt.Println(replay.FormatNames(r.Names))

	shown := 0
	for i, b := range r.Blocks {
		if !shouldShow(b, filter) {
			continue
		}

		shown++
		if shown > maxMessages {
			fmt.Printf("\n... (showing first %d matching messages, %d total messages in replay)\n", maxMessages, len(r.Blocks))
			break
		}

		printBlock(b, i)
	}

	if shown == 0 {
		fmt.Printf("No messages matched filter: %s\n", filter)
	} else if shown <= maxMessages {
		fmt.Printf("\nShowed %d messages (out of %d total)\n", shown, len(r.Blocks))
	}
	if r.HasLegacy {
		color.Yellow("Replay embeds a legacy replay after its messages")
	}
	for _, p := range r.Unresolved {
		color.Yellow("Unresolved xyz materials at %s", p)
	}
}

func shouldShow(b decoder.Block, filter string) bool {
	switch filter {
	case "all":
		return true
	case "events":
		return b.Msg.IsEvent()
	case "queries":
		return len(b.Msg.Queries) > 0
	}

	if strings.HasPrefix(filter, "type:") {
		t, _ := codec.MessageType(strings.TrimPrefix(filter, "type:"))
		return b.Msg.Type == t
	}

	return false
}

func printBlock(b decoder.Block, num int) {
	m := b.Msg
	fmt.Println(strings.Repeat("=", 80))
	color.New(color.FgCyan, color.Bold).Printf("MESSAGE #%d ", num)
	fmt.Printf("%s (%d)\n", codec.MessageName(m.Type), m.Type)

	if m.IsEvent() {
		data, err := json.Marshal(m.Event)
		if err != nil {
			data = []byte(err.Error())
		}
		fmt.Printf("Event:   %s %s\n", m.Event.EventName(), data)
	}
	for _, q := range m.Queries {
		var fields []string
		for _, f := range q.Data.Present() {
			fields = append(fields, fmt.Sprintf("%s=%v", f, q.Data.Value(f)))
		}
		fmt.Printf("Query:   %s %s\n", q.Place, strings.Join(fields, " "))
	}
	for _, x := range m.XyzResolved {
		fmt.Printf("Xyz:     %s -> %s\n", x.Zone, x.To)
	}
}
