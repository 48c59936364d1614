// Package config reads chunkgen defaults from CHUNKGEN_* environment
// variables. Command-line flags take precedence over everything here.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Urethramancer/chunkgen/chunk"
	"github.com/Urethramancer/chunkgen/logging"
	"github.com/Urethramancer/chunkgen/render"
	"github.com/Urethramancer/chunkgen/source"
)

type Config struct {
	// Output layout
	Shape      string
	BlockType  string
	Bundles    bool
	MemoryText bool
	Template   string

	// Input decoding
	ISA  string
	Base uint64

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	return Config{
		Shape:      envOr("CHUNKGEN_SHAPE", "blob"),
		BlockType:  envOr("CHUNKGEN_BLOCK_TYPE", "block"),
		Bundles:    envBool("CHUNKGEN_BUNDLES", true),
		MemoryText: envBool("CHUNKGEN_MEMORY_TEXT", false),
		Template:   os.Getenv("CHUNKGEN_TEMPLATE"),

		ISA:  envOr("CHUNKGEN_ISA", string(source.Auto)),
		Base: envUint("CHUNKGEN_BASE", 0),

		LogLevel:  envOr("CHUNKGEN_LOG_LEVEL", "warn"),
		LogFormat: envOr("CHUNKGEN_LOG_FORMAT", "text"),
	}
}

func (c Config) Validate() error {
	if _, err := render.ParseShape(c.Shape); err != nil {
		return fmt.Errorf("CHUNKGEN_SHAPE: %w", err)
	}
	if _, err := chunk.ParseBlockType(c.BlockType); err != nil {
		return fmt.Errorf("CHUNKGEN_BLOCK_TYPE: %w", err)
	}
	if _, err := source.ParseISA(c.ISA); err != nil {
		return fmt.Errorf("CHUNKGEN_ISA: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("CHUNKGEN_LOG_LEVEL: %w", err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("CHUNKGEN_LOG_FORMAT: %w", err)
	}
	return nil
}

// BuildOptions converts the layout settings for chunk.Build. Call Validate
// first; invalid values fall back to defaults.
func (c Config) BuildOptions() chunk.Options {
	bt, _ := chunk.ParseBlockType(c.BlockType)
	return chunk.Options{Bundles: c.Bundles, BlockType: bt, ExpandMemory: c.MemoryText}
}

// RenderOptions converts the output settings for render.Render.
func (c Config) RenderOptions(src, digest string) render.Options {
	shape, _ := render.ParseShape(c.Shape)
	return render.Options{Shape: shape, Source: src, Digest: digest, Template: c.Template}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envUint accepts any prefix strconv understands, so 0x400 works.
func envUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 0, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
