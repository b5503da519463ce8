package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/fsnow/duel-replay/pkg/config"
	"github.com/fsnow/duel-replay/pkg/decoder"
	"github.com/fsnow/duel-replay/pkg/output"
	"github.com/fsnow/duel-replay/pkg/reader"
	"github.com/fsnow/duel-replay/pkg/replay"
	"github.com/fsnow/duel-replay/pkg/store"
)

const (
	exitUsage          = 1
	exitOpen           = 2
	exitTooSmall       = 3
	exitWrongMagic     = 4
	exitDecompress     = 5
	exitTruncated      = 6
	exitUnknown        = 8
	exitLengthMismatch = 9
	exitOther          = 10
)

// exitCode maps a decode failure to the tool's exit status
func exitCode(err error) int {
	switch {
	case errors.Is(err, reader.ErrTooSmall):
		return exitTooSmall
	case errors.Is(err, reader.ErrWrongMagic), errors.Is(err, reader.ErrVersionTooNew):
		return exitWrongMagic
	case errors.Is(err, reader.ErrInitFailed),
		errors.Is(err, reader.ErrHeaderDecodeFailed),
		errors.Is(err, reader.ErrUnexpectedHeaderOutput),
		errors.Is(err, reader.ErrStreamFailed),
		errors.Is(err, reader.ErrSizeMismatch):
		return exitDecompress
	case errors.Is(err, decoder.ErrTruncated), errors.Is(err, reader.ErrTruncated):
		return exitTruncated
	case errors.Is(err, decoder.ErrUnknownMessageType):
		return exitUnknown
	case errors.Is(err, decoder.ErrLengthMismatch):
		return exitLengthMismatch
	}
	return exitOther
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <yrpX-file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nDecodes a yrpX replay into a structured duel message stream.\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  YRP_FORMAT, YRP_ZSTD, YRP_LOG_LEVEL, YRP_MONGO_URI, YRP_MONGO_DATABASE,\n")
	fmt.Fprintf(os.Stderr, "  YRP_MONGO_COLLECTION, YRP_SQLITE_PATH\n")
	fmt.Fprintf(os.Stderr, "\nExample:\n")
	fmt.Fprintf(os.Stderr, "  %s -names -date -format pb duel.yrpX\n", os.Args[0])
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(exitUsage)
	}

	showNames := flag.Bool("names", false, "print the duelists")
	showDate := flag.Bool("date", false, "print the recording date")
	showDecks := flag.Bool("decks", false, "print the decks of the embedded legacy replay")
	showResponses := flag.Bool("responses", false, "print the responses of the embedded legacy replay")
	format := flag.String("format", cfg.Format, "output format: json, bson or pb")
	compress := flag.Bool("zstd", cfg.Zstd, "zstd-compress the output")
	outPath := flag.String("o", "", "output path (default <file>.<format>, - for stdout)")
	legacy := flag.Bool("legacy", false, "decode the embedded legacy replay")
	storeKind := flag.String("store", "", "also save the replay: mongo or sqlite")
	logLevel := flag.String("log-level", "", "log level (default from YRP_LOG_LEVEL)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(exitUsage)
	}
	if err := cfg.SetupLogging(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	filePath := flag.Arg(0)
	file, err := reader.OpenReplayFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay: %v\n", err)
		os.Exit(exitOpen)
	}

	startTime := time.Now()
	r, err := replay.Decode(file.Data(), replay.Options{Legacy: *legacy || *showDecks || *showResponses})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", filePath, err)
		os.Exit(exitCode(err))
	}
	log.Info().
		Str("file", filePath).
		Int("blocks", len(r.Blocks)).
		Bool("legacy", r.HasLegacy).
		Dur("took", time.Since(startTime)).
		Msg("replay decoded")

	printInfo(r, *showNames, *showDate, *showDecks, *showResponses)

	doc := output.Document(r)
	if err := writeOutput(*outPath, filePath, f, doc, *compress); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(exitOther)
	}

	if *storeKind != "" {
		if err := save(cfg, *storeKind, store.NewRecord(filePath, r)); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving replay: %v\n", err)
			os.Exit(exitOther)
		}
	}
}

func printInfo(r *replay.Replay, names, date, decks, responses bool) {
	title := color.New(color.FgCyan, color.Bold)
	if names {
		title.Println(replay.FormatNames(r.Names))
	}
	if date {
		fmt.Println(replay.FormatDate(r.Header.Seed, time.Local))
	}
	if !decks && !responses {
		return
	}
	if r.Legacy == nil {
		color.Yellow("No legacy replay embedded")
		return
	}
	if decks {
		for i, d := range r.Legacy.Decks.Decks {
			title.Printf("Deck %d", i)
			fmt.Printf(" (main %d, extra %d)\n", len(d.Main), len(d.Extra))
			fmt.Printf("  main:  %v\n", d.Main)
			fmt.Printf("  extra: %v\n", d.Extra)
		}
		if len(r.Legacy.Decks.Shared) > 0 {
			fmt.Printf("Shared extra cards: %v\n", r.Legacy.Decks.Shared)
		}
	}
	if responses {
		title.Printf("%d responses\n", len(r.Legacy.Responses))
		for i, resp := range r.Legacy.Responses {
			fmt.Printf("%5d  %x\n", i, resp)
		}
	}
}

func writeOutput(outPath, filePath string, f output.Format, doc bson.D, compress bool) error {
	if outPath == "-" {
		return output.Write(os.Stdout, doc, f, compress)
	}
	if outPath == "" {
		outPath = filePath + f.Ext()
		if compress {
			outPath += ".zst"
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := output.Write(out, doc, f, compress); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Str("format", string(f)).Msg("output written")
	return nil
}

func save(cfg config.Config, kind string, rec *store.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var s store.Store
	var err error
	switch kind {
	case "mongo":
		s, err = store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case "sqlite":
		s, err = store.OpenSQLite(cfg.SQLitePath)
	default:
		return fmt.Errorf("unknown store %q", kind)
	}
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.Save(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", kind, res)
	return nil
}
