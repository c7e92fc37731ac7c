package service

import (
	"lyricsync/internal/lyrics"
	"lyricsync/pkg/logger"
)

type Config struct {
	DataDir      string
	Logger       *logger.Logger
	ParseOptions []lyrics.ParseOption
}

type Option func(*Config)

func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithParseOptions(opts ...lyrics.ParseOption) Option {
	return func(c *Config) {
		c.ParseOptions = opts
	}
}

func defaultConfig() *Config {
	return &Config{
		DataDir: "data",
	}
}
