package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
)

var flagNames = []struct {
	flag uint32
	name string
}{
	{reader.FlagCompressed, "COMPRESSED"},
	{reader.FlagTag, "TAG"},
	{reader.FlagDecoded, "DECODED"},
	{reader.FlagSingleMode, "SINGLE_MODE"},
	{reader.FlagLua64, "LUA64"},
	{reader.FlagNewReplay, "NEWREPLAY"},
	{reader.FlagHandTest, "HAND_TEST"},
	{reader.FlagDirectSeed, "DIRECT_SEED"},
	{reader.Flag64BitDuelFlag, "64BIT_DUELFLAG"},
	{reader.FlagExtendedHeader, "EXTENDED_HEADER"},
}

// Simple tool to inspect the container of a replay file
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <replay-file> [dump-bytes]\n", os.Args[0])
		os.Exit(1)
	}
	dumpLen := 128
	if len(os.Args) >= 3 {
		fmt.Sscanf(os.Args[2], "%d", &dumpLen)
	}

	file, err := reader.OpenReplayFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(2)
	}
	data := file.Data()

	fmt.Printf("File size: %d bytes\n\n", file.Size())
	if file.Size() < reader.BaseHeaderSize {
		fmt.Fprintf(os.Stderr, "File too small\n")
		os.Exit(3)
	}

	// either magic is accepted here
	magic := reader.MagicYRPX
	if strings.HasPrefix(string(data), "yrp1") {
		magic = reader.MagicYRP1
	}
	h, err := file.Header(magic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading header: %v\n", err)
		os.Exit(4)
	}

	title := color.New(color.FgCyan, color.Bold)
	title.Println("=== Header ===")
	fmt.Printf("Magic:          %s (0x%08x)\n", reader.MagicName(h.Magic), h.Magic)
	fmt.Printf("Version:        0x%08x\n", h.Version)
	fmt.Printf("Flags:          0x%08x %s\n", h.Flags, describeFlags(h.Flags))
	fmt.Printf("Seed:           %d\n", h.Seed)
	fmt.Printf("Size:           %d bytes\n", h.Size)
	fmt.Printf("Props:          % x\n", h.Props)
	if h.Extended() {
		fmt.Printf("Header version: %d\n", h.HeaderVersion)
		fmt.Printf("Seed128:        %016x %016x %016x %016x\n", h.Seed128[0], h.Seed128[1], h.Seed128[2], h.Seed128[3])
	}
	fmt.Printf("Header size:    %d bytes\n", h.HeaderSize())
	if magic == reader.MagicYRPX {
		fmt.Println(replay.FormatDate(h.Seed, nil))
	}

	payload, err := reader.Decompress(h, h.Payload(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decompressing payload: %v\n", err)
		os.Exit(5)
	}

	fmt.Println()
	title.Println("=== Payload ===")
	fmt.Printf("Stored:         %d bytes\n", len(h.Payload(data)))
	fmt.Printf("Decompressed:   %d bytes\n", len(payload))

	c := reader.NewCursor(payload)
	if names, err := reader.ReadNames(h.Flags, c); err == nil {
		fmt.Printf("Duelists:       %s\n", replay.FormatNames(names))
		if flags, err := reader.ReadDuelFlags(h.Flags, c); err == nil {
			fmt.Printf("Duel flags:     0x%x\n", flags)
			fmt.Printf("Messages at:    %d\n", c.Offset())
		}
	} else {
		color.Yellow("Duelists:       %v", err)
	}

	fmt.Printf("\nHex dump (first %d bytes):\n", dumpLen)
	for i := 0; i < dumpLen && i < len(payload); i += 16 {
		fmt.Printf("%08x  ", i)
		for j := 0; j < 16; j++ {
			if i+j < len(payload) {
				fmt.Printf("%02x ", payload[i+j])
			} else {
				fmt.Printf("   ")
			}
			if j == 7 {
				fmt.Printf(" ")
			}
		}
		fmt.Printf(" |")
		for j := 0; j < 16 && i+j < len(payload); j++ {
			c := payload[i+j]
			if c >= 32 && c < 127 {
				fmt.Printf("%c", c)
			} else {
				fmt.Printf(".")
			}
		}
		fmt.Printf("|\n")
	}
}

func describeFlags(flags uint32) string {
	var set []string
	for _, f := range flagNames {
		if flags&f.flag != 0 {
			set = append(set, f.name)
		}
	}
	if len(set) == 0 {
		return ""
	}
	return "(" + strings.Join(set, "|") + ")"
}
