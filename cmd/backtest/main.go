// Command backtest replays recorded market data through a fresh venue and
// prints the fill report.
//
// Input is either an event journal written by the server (-journal) or a
// raw tick capture (-ticks): length-prefixed binary tick frames, each a
// uint32 little-endian length followed by one encoded tick.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nathanyu/backtest-venue/internal/backtest"
	"github.com/nathanyu/backtest-venue/internal/codec"
	"github.com/nathanyu/backtest-venue/internal/domain"
	"github.com/nathanyu/backtest-venue/internal/journal"
	"github.com/nathanyu/backtest-venue/internal/telemetry"
)

func main() {
	var (
		journalPath = flag.String("journal", "", "event journal to replay")
		ticksPath   = flag.String("ticks", "", "binary tick capture to replay")
		strategy    = flag.String("algo", "passive", "strategy to run (passive, sniper, addcancel, vwap)")
		depth       = flag.Int("depth", 10, "visible book depth per side")
		outPath     = flag.String("out", "", "write the JSON report to this file instead of stdout")
	)
	flag.Parse()

	telemetry.InitLogger("backtest")

	if (*journalPath == "") == (*ticksPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -journal or -ticks is required")
		flag.Usage()
		os.Exit(2)
	}

	var (
		events []domain.Event
		err    error
	)
	if *journalPath != "" {
		events, err = journal.LoadAll(*journalPath)
	} else {
		events, err = loadTicks(*ticksPath)
	}
	if err != nil {
		slog.Error("failed to load input", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(events) == 0 {
		slog.Error("no events to replay")
		os.Exit(1)
	}

	report, err := backtest.Run(*strategy, events, *depth)
	if err != nil {
		slog.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("failed to marshal report", slog.String("error", err.Error()))
		os.Exit(1)
	}
	data = append(data, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			slog.Error("failed to write report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}
	os.Stdout.Write(data)
}

// loadTicks reads length-prefixed tick frames into tick events.
func loadTicks(path string) ([]domain.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tick capture: %w", err)
	}
	defer file.Close()

	var events []domain.Event
	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(file, lenBuf[:]); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return nil, fmt.Errorf("frame %d: failed to read length: %w", len(events), err)
		}
		frame := make([]byte, binary.LittleEndian.Uint32(lenBuf[:]))
		if _, err := io.ReadFull(file, frame); err != nil {
			return nil, fmt.Errorf("frame %d: failed to read body: %w", len(events), err)
		}
		tick, err := codec.DecodeTick(frame)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(events), err)
		}
		events = append(events, domain.TickEvent{Tick: tick})
	}
}
