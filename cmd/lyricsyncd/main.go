package main

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"lyricsync/internal/lyrics"
	"lyricsync/internal/service"
	"lyricsync/pkg/logger"
)

var (
	port              int
	dataDir           string
	allowedOrigins    string
	literalHundredths bool
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dataDir, "data", getEnvOrDefault("LYRICSYNC_DATA_DIR", "data"), "Directory holding uploaded files")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
	flag.BoolVar(&literalHundredths, "literal-hundredths", true, "Read the [MM:SS.C] fraction as literal hundredths (historical behavior)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	log := logger.GetLogger()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	opts := []service.Option{
		service.WithDataDir(dataDir),
		service.WithLogger(log),
	}
	if !literalHundredths {
		opts = append(opts, service.WithParseOptions(lyrics.WithFractionScaling()))
	}

	library, err := service.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create library: %v", err)
	}
	if err := library.Bootstrap(); err != nil {
		log.Fatalf("Failed to load existing files: %v", err)
	}

	config := &ServerConfig{
		Port:           port,
		DataDir:        dataDir,
		AllowedOrigins: origins,
	}

	server := NewServer(library, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
