package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"lyricsync/internal/lyrics"
	"lyricsync/internal/media"
	"lyricsync/internal/playback"
	"lyricsync/internal/service"
	"lyricsync/pkg/logger"
)

var (
	activeStyle   = color.New(color.FgHiYellow, color.Bold)
	upcomingStyle = color.New(color.FgHiBlack)
	timeStyle     = color.New(color.FgCyan)
)

func parseLyricsFile(path string, scaledFractions bool) []lyrics.Line {
	log := logger.GetLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read lyrics file: %v", err)
	}

	var opts []lyrics.ParseOption
	if scaledFractions {
		opts = append(opts, lyrics.WithFractionScaling())
	}
	return lyrics.Parse(string(data), opts...)
}

func handlePlay() {
	log := logger.GetLogger()

	path, flagArgs := splitArgs(os.Args[2:])
	playCmd := newFlagSet("play")
	audioPath := playCmd.String("audio", "", "WAV file whose header supplies the track duration")
	offset := playCmd.Float64("offset", 0, "Start playback this many seconds in")
	scaled := playCmd.Bool("scaled-fractions", false, "Scale the [MM:SS.C] fraction by its digit count")
	tick := playCmd.Duration("tick", 50*time.Millisecond, "Polling interval for the clock")
	playCmd.Parse(flagArgs)

	if path == "" {
		log.Fatalf("play requires a lyrics file")
	}

	lines := parseLyricsFile(path, *scaled)
	if len(lines) == 0 {
		log.Fatalf("No timestamped lines found in %s", path)
	}

	// The last line stays on screen for a moment unless the audio header
	// gives a real track length.
	duration := lines[len(lines)-1].Timestamp + 5
	if *audioPath != "" {
		info, err := media.Probe(*audioPath)
		if err != nil {
			log.Warnf("Could not probe %s: %v", *audioPath, err)
		} else {
			duration = info.DurationSec
			log.Infof("Track duration %.1fs (%d Hz, %d channel(s))", info.DurationSec, info.SampleRate, info.Channels)
		}
	}

	log.Infof("Playing %s: %d line(s), %.1fs", path, len(lines), duration)
	runPlayback(lines, duration, *offset, *tick)
}

// runPlayback drives the synchronizer off the wall clock, printing each
// line as it becomes active.
func runPlayback(lines []lyrics.Line, duration, offset float64, tick time.Duration) {
	sync := playback.New(lines)
	start := time.Now()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for now := range ticker.C {
		elapsed := now.Sub(start).Seconds() + offset
		if elapsed > duration {
			break
		}

		idx, changed := sync.Advance(elapsed)
		if !changed || idx == playback.NoLine {
			continue
		}

		line := lines[idx]
		fmt.Printf("%s %s\n", timeStyle.Sprintf("[%7.2fs]", line.Timestamp), activeStyle.Sprint(line.Text))
		if idx+1 < len(lines) {
			fmt.Printf("           %s\n", upcomingStyle.Sprint(lines[idx+1].Text))
		}
	}
}

func handleParse() {
	log := logger.GetLogger()

	path, flagArgs := splitArgs(os.Args[2:])
	parseCmd := newFlagSet("parse")
	scaled := parseCmd.Bool("scaled-fractions", false, "Scale the [MM:SS.C] fraction by its digit count")
	parseCmd.Parse(flagArgs)

	if path == "" {
		log.Fatalf("parse requires a lyrics file")
	}

	lines := parseLyricsFile(path, *scaled)

	out, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode lines: %v", err)
	}
	fmt.Println(string(out))
}

func handleScan() {
	log := logger.GetLogger()

	_, flagArgs := splitArgs(os.Args[2:])
	scanCmd := newFlagSet("scan")
	dataDir := scanCmd.String("data", getEnvOrDefault("LYRICSYNC_DATA_DIR", "data"), "Directory holding stored files")
	scanCmd.Parse(flagArgs)

	library, err := service.New(service.WithDataDir(*dataDir), service.WithLogger(log))
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}
	if err := library.Bootstrap(); err != nil {
		log.Fatalf("Failed to scan %s: %v", *dataDir, err)
	}

	records := library.Records()
	if len(records) == 0 {
		fmt.Println("No files registered.")
		return
	}

	for _, rec := range records {
		fmt.Printf("%s  %-40s %s\n", rec.ContentHash[:12], rec.StoredName, rec.RegisteredAt.Format(time.RFC3339))
	}
	fmt.Printf("%d file(s)\n", len(records))
}
