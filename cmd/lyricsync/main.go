package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"lyricsync/pkg/logger"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	log := logger.GetLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "play":
		handlePlay()
	case "parse":
		handleParse()
	case "scan":
		handleScan()
	default:
		log.Errorf("Unknown command: %s", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`LyricSync - synchronized lyrics player

Usage:
  lyricsync play <lyrics-file> [-audio file.wav] [-offset seconds] [-scaled-fractions]
  lyricsync parse <lyrics-file> [-scaled-fractions]
  lyricsync scan [-data dir]

Commands:
  play    Play a lyrics file against the wall clock, highlighting the active line
  parse   Parse a lyrics file and print the timestamped lines as JSON
  scan    Load a data directory into the hash registry and list its contents`)
}

// splitArgs separates the first non-flag argument from the remaining flags.
func splitArgs(args []string) (string, []string) {
	var positional string
	var flags []string
	for i, arg := range args {
		if len(arg) > 0 && arg[0] != '-' && positional == "" {
			positional = arg
			continue
		}
		flags = append(flags, args[i])
	}
	return positional, flags
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}
