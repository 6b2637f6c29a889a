package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/lander/internal/audio"
	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/draw"
	"github.com/tomz197/lander/internal/effects"
	"github.com/tomz197/lander/internal/input"
	"github.com/tomz197/lander/internal/lander"
	"github.com/tomz197/lander/internal/mission"
	"github.com/tomz197/lander/internal/storage"
	"github.com/tomz197/lander/internal/telemetry"
)

// ClientOptions configures a client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Mission      mission.Config
	Persistence  mission.Persistence
	Player       audio.Player
	Logger       *log.Logger
	Metrics      *telemetry.Metrics
	Hub          *Hub // Shared by sessions of a server, nil when playing locally
	IdleLimit    bool // Warn and disconnect inactive sessions
	Rand         lander.Rand
}

// Client runs one game for one terminal: input, the tick, and rendering.
type Client struct {
	game         *mission.Game
	cfg          mission.Config
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	presenter    *Presenter
	particles    *effects.System
	hub          *Hub
	handle       *ClientHandle
	logger       *log.Logger
	termSizeFunc draw.TermSizeFunc

	input     input.Input
	running   bool
	delta     time.Duration
	lastInput time.Time
	idleLimit bool

	isInactive    bool
	wasInactive   bool
	shutdown      bool
	shutdownTimer float64
	prevState     mission.State
	wasShutdown   bool
	broadcast     notice
	scores        []storage.HighScore
}

// NewClient creates a client and its game. The game starts on the main menu.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cfg := opts.Mission
	if len(cfg.Planets) == 0 {
		cfg = mission.DefaultConfig(config.Difficulties[config.DefaultDifficulty])
	}

	particles := effects.NewSystem(rng)
	particles.SetFloor(cfg.SurfaceY)
	presenter := NewPresenter(particles, opts.Player, nil)

	game := mission.New(mission.Options{
		Persistence: opts.Persistence,
		Sink:        presenter,
		Rand:        rng,
		Logger:      logger,
		Metrics:     opts.Metrics,
		PlayerName:  opts.Username,
	})

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, cfg.Width, cfg.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		game:         game,
		cfg:          cfg,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		presenter:    presenter,
		particles:    particles,
		hub:          opts.Hub,
		logger:       logger,
		termSizeFunc: termSizeFunc,
		running:      true,
		lastInput:    time.Now(),
		idleLimit:    opts.IdleLimit,
		prevState:    game.State(),
		scores:       game.HighScores(),
	}
	if c.hub != nil {
		c.handle = c.hub.RegisterClient(game.Player())
	}
	return c
}

// Game returns the client's game.
func (c *Client) Game() *mission.Game {
	return c.game
}

// Run starts the client loop. Blocks until the player quits, the input ends,
// or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.close()

	lastTime := time.Now()
	for c.running && ctx.Err() == nil {
		frameStart := time.Now()
		c.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processHubEvents()
		c.updateScreen()
		c.update()
		c.particles.Update(c.delta)

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("drawing frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

func (c *Client) close() {
	if c.game.State() == mission.StateActive || c.game.State() == mission.StatePaused {
		c.game.ReturnToMenu()
	}
	c.presenter.Close()
	if c.hub != nil && c.handle != nil {
		c.hub.UnregisterClient(c.handle.ID)
	}
}

// processInput reads pending keys and tracks inactivity.
func (c *Client) processInput() {
	c.input = input.ReadInput(c.inputStream)

	if len(c.input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.isInactive = false
	} else if c.idleLimit {
		idle := time.Since(c.lastInput).Seconds()
		switch {
		case idle > InactivityDisconnectUser:
			c.logger.Info("disconnecting idle session", "player", c.game.Player())
			c.running = false
		case idle > InactivityWarnUser:
			c.isInactive = true
		}
	}

	if c.input.Quit {
		if c.inputStream.Closed() {
			c.logger.Info("input closed", "player", c.game.Player())
		}
		c.running = false
	}
}

// processHubEvents handles broadcasts from other sessions.
func (c *Client) processHubEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case ev := <-c.handle.EventsCh:
			switch ev.Type {
			case EventServerShutdown:
				c.shutdown = true
				c.shutdownTimer = ShutdownDisplaySeconds
			case EventHighScore:
				c.broadcast = notice{
					text:    fmt.Sprintf("Pilot %s just posted %d points!", ev.Name, ev.Score),
					color:   draw.ColorBrightCyan,
					expires: time.Now().Add(broadcastDuration),
				}
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, MaxTermWidth)
	renderHeight = min(termHeight, MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// update applies this frame's commands and advances the mission.
func (c *Client) update() {
	in := c.input
	if in.Mute {
		c.presenter.ToggleMute()
	}

	if c.shutdown {
		c.shutdownTimer -= c.delta.Seconds()
		if c.shutdownTimer <= 0 {
			c.running = false
		}
		if c.game.State() == mission.StateActive {
			c.check("pause", c.game.Pause())
		}
		return
	}

	g := c.game
	if c.isInactive {
		if g.State() == mission.StateActive {
			c.check("pause", g.Pause())
		}
		return
	}

	switch g.State() {
	case mission.StateIdle:
		if in.Start {
			c.start()
		}

	case mission.StateActive:
		if in.Menu {
			c.menu()
			return
		}
		if in.Pause {
			c.check("pause", g.Pause())
			return
		}
		g.SetControl(lander.ControlThrust, in.Thrust)
		g.SetControl(lander.ControlRotateLeft, in.RotateLeft)
		g.SetControl(lander.ControlRotateRight, in.RotateRight)
		if err := g.Tick(float64(c.delta) / float64(time.Millisecond)); err != nil {
			c.logger.Error("mission aborted", "err", err)
		}
		if g.State() == mission.StateEnded {
			c.onEnded()
		}

	case mission.StatePaused:
		switch {
		case in.Menu:
			c.menu()
		case in.Pause || in.Start:
			c.check("resume", g.Resume())
		}

	case mission.StateEnded:
		res := g.Result()
		switch {
		case in.Menu:
			c.menu()
		case in.Next:
			c.advance()
		case in.Restart:
			c.restart()
		case in.Start:
			if res != nil && res.CanAdvance {
				c.advance()
			} else {
				c.restart()
			}
		}
	}
}

// check logs a rejected transition. Rejections are expected from key mashing.
func (c *Client) check(op string, err error) {
	if err != nil {
		c.logger.Debug("ignored command", "op", op, "err", err)
	}
}

func (c *Client) start() {
	c.resetView()
	if err := c.game.StartMission(c.cfg); err != nil {
		c.logger.Error("could not start mission", "err", err)
		return
	}
	c.presenter.Click()
}

func (c *Client) restart() {
	c.resetView()
	c.check("restart", c.game.RestartMission())
	c.presenter.Click()
}

func (c *Client) advance() {
	err := c.game.AdvanceToNextMission()
	if errors.Is(err, mission.ErrPlanetsLocked) {
		c.presenter.show("Land on the Moon first to unlock other planets", draw.ColorYellow)
		return
	}
	c.check("advance", err)
	c.resetView()
	c.presenter.Click()
}

func (c *Client) menu() {
	c.game.ReturnToMenu()
	c.resetView()
	c.presenter.Click()
}

// resetView drops effects and held keys from the previous screen.
func (c *Client) resetView() {
	c.particles.Reset()
	c.inputStream.Reset()
}

// onEnded shares a new leaderboard entry with the other sessions.
func (c *Client) onEnded() {
	res := c.game.Result()
	if res == nil || !res.NewHighScore || c.hub == nil || c.handle == nil {
		return
	}
	c.hub.Broadcast(HubEvent{Type: EventHighScore, From: c.handle.ID, Name: c.game.Player(), Score: res.TotalScore})
}
