package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v6/osfs"

	"github.com/quarrydb/quarry"
	"github.com/quarrydb/quarry/logger"
	"github.com/quarrydb/quarry/snapshot"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	listen := flag.String("listen", "", "TCP listen address (overrides config)")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			os.Stderr.WriteString("quarry-server: " + err.Error() + "\n")
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	log := logger.New(cfg.Log)

	instance := quarry.Open()
	if cfg.SnapshotDir != "" {
		fs := osfs.New(cfg.SnapshotDir)
		if err := snapshot.Load(fs, instance.Engine()); err != nil {
			if errors.Is(err, snapshot.ErrNoSnapshot) {
				log.Info().Str("dir", cfg.SnapshotDir).Msg("no snapshot found, starting empty")
			} else {
				log.Fatal().Err(err).Msg("failed to restore snapshot")
			}
		} else {
			log.Info().Str("dir", cfg.SnapshotDir).Msg("snapshot restored")
		}
	}

	server := NewServer(instance, cfg.Auth, log)
	if err := server.Start(cfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	if err := server.Stop(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	if cfg.SnapshotDir != "" {
		fs := osfs.New(cfg.SnapshotDir)
		if err := snapshot.Save(fs, instance.Engine()); err != nil {
			log.Error().Err(err).Msg("failed to save snapshot")
		} else {
			log.Info().Str("dir", cfg.SnapshotDir).Msg("snapshot saved")
		}
	}
}
