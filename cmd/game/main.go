package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/lander/internal/audio"
	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/loop"
	"github.com/tomz197/lander/internal/mission"
	"github.com/tomz197/lander/internal/storage"
	"github.com/tomz197/lander/internal/telemetry"
)

func main() {
	settings, err := config.Load(config.GetEnv("LANDER_CONFIG_DIR", "."))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	difficulty, _ := settings.DifficultyProfile()

	// The terminal is the screen, so logs go to a file.
	logFile, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "lander",
	})
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var kv storage.KV
	sqlite, err := storage.OpenSQLite(settings.StorePath)
	if err != nil {
		logger.Warn("store unavailable, progress will not be kept", "path", settings.StorePath, "err", err)
		kv = storage.NewMemoryKV()
	} else {
		defer sqlite.Close()
		kv = sqlite
	}
	store := storage.NewStore(kv, logger)

	var metrics *telemetry.Metrics
	if settings.MetricsEnabled {
		session, err := telemetry.NewSession()
		if err != nil {
			logger.Warn("metrics disabled", "err", err)
		} else {
			metrics = session.Metrics
			defer logSummary(logger, session)
		}
	}

	var player audio.Player = audio.Silent{}
	if settings.AudioEnabled {
		sp := audio.NewSpeaker()
		if err := sp.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			player = sp
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "difficulty", difficulty.Name, "player", settings.PlayerName)
	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.ClientOptions{
		Username:    settings.PlayerName,
		Mission:     mission.DefaultConfig(difficulty),
		Persistence: store,
		Player:      player,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// logSummary writes the session's counters to the log and stops the provider.
func logSummary(logger *log.Logger, session *telemetry.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	stats, err := session.Summary(ctx)
	if err != nil {
		logger.Warn("could not collect metrics", "err", err)
	}
	for _, s := range stats {
		logger.Info("session metric", "name", s.Name, "value", s.Value)
	}
	if err := session.Shutdown(ctx); err != nil {
		logger.Warn("metrics shutdown", "err", err)
	}
}
