package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/draw"
	"github.com/tomz197/lander/internal/loop"
	"github.com/tomz197/lander/internal/mission"
	"github.com/tomz197/lander/internal/storage"
	"github.com/tomz197/lander/internal/telemetry"
)

const (
	defaultHost        = "::"
	defaultPort        = 2222
	defaultHostKeyPath = "/app/keys/host_key"
)

// game holds what every session shares.
type game struct {
	hub     *loop.Hub
	store   *storage.Store
	mission mission.Config
	metrics *telemetry.Metrics
	logger  *log.Logger
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ssh",
	})

	settings, err := config.Load(config.GetEnv("LANDER_CONFIG_DIR", "."))
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	difficulty, _ := settings.DifficultyProfile()

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := strconv.Itoa(config.GetEnvPort("SSH_PORT", defaultPort))
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "store", settings.StorePath)

	kv, err := storage.OpenSQLite(settings.StorePath)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer kv.Close()

	g := &game{
		hub:     loop.NewHub(),
		store:   storage.NewStore(kv, logger),
		mission: mission.DefaultConfig(difficulty),
		logger:  logger,
	}
	if settings.MetricsEnabled {
		session, err := telemetry.NewSession()
		if err != nil {
			logger.Warn("metrics disabled", "err", err)
		} else {
			g.metrics = session.Metrics
			defer logSummary(logger, session)
		}
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify pilots and wait for them to disconnect. Progress is saved as
	// each mission ends, so nothing is lost when the wait times out.
	logger.Info("Notifying connected pilots", "count", g.hub.Players())
	g.hub.Shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// middleware runs one game per PTY session.
func (g *game) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := g.logger.With("user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, loop.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Mission:      g.mission,
			Persistence:  g.store.ForPlayer(sess.User()),
			Logger:       logger,
			Metrics:      g.metrics,
			Hub:          g.hub,
			IdleLimit:    true,
		})
		if err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// logSummary writes the server's counters to the log and stops the provider.
func logSummary(logger *log.Logger, session *telemetry.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	stats, err := session.Summary(ctx)
	if err != nil {
		logger.Warn("could not collect metrics", "err", err)
	}
	for _, s := range stats {
		logger.Info("server metric", "name", s.Name, "value", s.Value)
	}
	_ = session.Shutdown(ctx)
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
