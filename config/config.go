package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"snip-nano/annotate"
)

const (
	defaultHotkey = "F1"
)

type Config struct {
	Hotkey            string
	PenColor          color.RGBA
	PenWidth          int
	EnableFileLogging bool
}

// Load reads configuration from a .env file next to the executable (if one
// exists) and then from the process environment. Invalid values fall back to
// defaults rather than failing startup.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Hotkey:            getEnvWithDefault("HOTKEY", defaultHotkey),
		PenColor:          resolvePenColor(os.Getenv("PEN_COLOR")),
		PenWidth:          resolvePenWidth(os.Getenv("PEN_WIDTH")),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func resolvePenWidth(value string) int {
	if value == "" {
		return annotate.DefaultWidth
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return annotate.DefaultWidth
	}
	return annotate.ClampWidth(n)
}

// resolvePenColor parses "#RRGGBB" (leading '#' optional).
func resolvePenColor(value string) color.RGBA {
	c, err := ParseHexColor(value)
	if err != nil {
		return annotate.DefaultColor
	}
	return c
}

// ParseHexColor parses an opaque RGB color written as RRGGBB or #RRGGBB.
func ParseHexColor(value string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("config: invalid color %q", value)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("config: invalid color %q: %w", value, err)
	}
	return color.RGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 255,
	}, nil
}
