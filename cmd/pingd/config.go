package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wirecall/wirecall/internal/ping"
	"github.com/wirecall/wirecall/internal/pingd"
)

type fileConfig struct {
	Listen        string `toml:"listen"`
	PayloadFormat string `toml:"payload_format"`
	MaxFrameBytes int64  `toml:"max_frame_bytes"`
	ReadTimeout   string `toml:"read_timeout"`
}

func loadConfig(path string) (pingd.Config, error) {
	cfg := pingd.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return pingd.Config{}, fmt.Errorf("load pingd config: %w", err)
	}

	if meta.IsDefined("listen") {
		addr := strings.TrimSpace(raw.Listen)
		if addr != "" {
			cfg.Listen = addr
		}
	}

	if meta.IsDefined("payload_format") {
		format, err := ping.ParseFormat(strings.TrimSpace(raw.PayloadFormat))
		if err != nil {
			return pingd.Config{}, fmt.Errorf("parse payload_format: %w", err)
		}
		cfg.PayloadFormat = format
	}

	if meta.IsDefined("max_frame_bytes") {
		if raw.MaxFrameBytes <= 0 || raw.MaxFrameBytes > math.MaxUint32 {
			return pingd.Config{}, fmt.Errorf("max_frame_bytes must be in 1..%d, got %d", uint32(math.MaxUint32), raw.MaxFrameBytes)
		}
		cfg.MaxFrameBytes = uint32(raw.MaxFrameBytes)
	}

	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return pingd.Config{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	return cfg, nil
}
