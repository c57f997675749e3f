package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/wirecall/wirecall/internal/pingd"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a toml config file")
		listenAddr = flag.String("listen", "", "listen address, overrides the config file")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	cfg := pingd.DefaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pingd: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := pingd.NewService(cfg, log)
	if err := svc.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pingd: %v\n", err)
		os.Exit(1)
	}
}
