package mission

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/lander"
	"github.com/tomz197/lander/internal/scoring"
	"github.com/tomz197/lander/internal/storage"
	"github.com/tomz197/lander/internal/telemetry"
)

// Persistence stores progress and high scores. *storage.Store satisfies it.
type Persistence interface {
	LoadProgress() storage.Progress
	SaveProgress(storage.Progress) error
	LoadHighScores() []storage.HighScore
	SaveHighScore(storage.HighScore) (bool, error)
}

var _ Persistence = (*storage.Store)(nil)

// Options are the collaborators of a Game. Zero values get working defaults.
type Options struct {
	Persistence Persistence
	Sink        lander.Sink
	Rand        lander.Rand
	Now         func() time.Time
	Logger      *log.Logger
	Metrics     *telemetry.Metrics
	PlayerName  string
}

// Result describes how the last mission ended.
type Result struct {
	Success         bool
	Planet          string
	Title           string
	Message         string
	Reason          lander.Reason
	Impact          *lander.Impact
	Scoring         scoring.Result
	AttemptScore    int
	TotalScore      int
	NewHighScore    bool
	FirstCompletion bool
	CanAdvance      bool
}

// Game owns all mission state. It is driven from a single goroutine and is
// not safe for concurrent use.
type Game struct {
	persist Persistence
	sink    lander.Sink
	rng     lander.Rand
	now     func() time.Time
	logger  *log.Logger
	metrics *telemetry.Metrics
	player  string

	state    State
	ticked   bool
	cfg      Config
	lander   *lander.Lander
	env      *lander.Environment
	controls lander.Controls
	nearMiss lander.NearMiss

	score       int
	planetIndex int
	completed   bool
	result      *Result
	flightTime  time.Duration
}

// New creates a game on the main menu.
func New(opts Options) *Game {
	g := &Game{
		persist: opts.Persistence,
		sink:    opts.Sink,
		rng:     opts.Rand,
		now:     opts.Now,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		player:  storage.NormalizeName(opts.PlayerName),
		state:   StateIdle,
	}
	if g.sink == nil {
		g.sink = lander.Discard
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	if g.persist != nil {
		g.completed = g.persist.LoadProgress().Completed
	}
	return g
}

// State returns the current phase.
func (g *Game) State() State { return g.state }

// Lander returns the craft of the current mission, or nil on the menu.
func (g *Game) Lander() *lander.Lander { return g.lander }

// Environment returns the current mission layout, or nil on the menu.
func (g *Game) Environment() *lander.Environment { return g.env }

// Controls returns the held inputs.
func (g *Game) Controls() lander.Controls { return g.controls }

// Score returns the cumulative score of the run.
func (g *Game) Score() int { return g.score }

// PlanetIndex returns the index of the current planet.
func (g *Game) PlanetIndex() int { return g.planetIndex }

// Completed reports whether the first mission has ever been landed.
func (g *Game) Completed() bool { return g.completed }

// Streak returns the near-miss streak.
func (g *Game) Streak() int { return g.nearMiss.Streak }

// Result returns the outcome of the last mission, or nil.
func (g *Game) Result() *Result { return g.result }

// FlightTime returns the simulated time of the current mission.
func (g *Game) FlightTime() time.Duration { return g.flightTime }

// Player returns the leaderboard tag.
func (g *Game) Player() string { return g.player }

// Planets returns the configured planets, falling back to the defaults on the menu.
func (g *Game) Planets() []config.Planet {
	if len(g.cfg.Planets) > 0 {
		return g.cfg.Planets
	}
	return config.Planets
}

// HighScores returns the saved leaderboard.
func (g *Game) HighScores() []storage.HighScore {
	if g.persist == nil {
		return nil
	}
	return g.persist.LoadHighScores()
}

// StartMission begins a fresh run from the menu, or replays from the result
// screen keeping the score. A bad config leaves the game untouched.
func (g *Game) StartMission(cfg Config) error {
	if g.state != StateIdle && g.state != StateEnded {
		return transitionError("start", g.state)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("starting mission: %w", err)
	}

	fresh := g.state == StateIdle
	g.cfg = cfg
	if fresh {
		progress := storage.Progress{}
		if g.persist != nil {
			progress = g.persist.LoadProgress()
		}
		g.completed = progress.Completed
		g.planetIndex = 0
		if g.completed {
			g.planetIndex = progress.PlanetIndex
		}
		g.score = 0
		g.nearMiss.Reset()
	}
	if g.planetIndex < 0 || g.planetIndex >= len(cfg.Planets) {
		g.planetIndex = 0
	}
	g.setup()
	return nil
}

// RestartMission replays the current planet keeping the score.
func (g *Game) RestartMission() error {
	if g.state != StateEnded {
		return transitionError("restart", g.state)
	}
	g.setup()
	return nil
}

// AdvanceToNextMission moves to the next planet, wrapping around, and saves progress.
func (g *Game) AdvanceToNextMission() error {
	if g.state != StateEnded {
		return transitionError("advance", g.state)
	}
	if !g.completed {
		return ErrPlanetsLocked
	}
	g.planetIndex = (g.planetIndex + 1) % len(g.cfg.Planets)
	g.saveProgress()
	g.setup()
	return nil
}

// ReturnToMenu abandons whatever is running.
func (g *Game) ReturnToMenu() {
	if g.state == StateActive || g.state == StatePaused {
		g.emit(lander.Event{Kind: lander.EventStopSound, Sound: lander.SoundThrust})
	}
	g.state = StateIdle
	g.controls = lander.Controls{}
	g.ticked = false
	if g.persist != nil {
		g.completed = g.persist.LoadProgress().Completed
	}
}

// Pause freezes an active mission. Not allowed before the first tick.
func (g *Game) Pause() error {
	if g.state != StateActive || !g.ticked {
		return transitionError("pause", g.state)
	}
	g.state = StatePaused
	g.emit(lander.Event{Kind: lander.EventStopSound, Sound: lander.SoundThrust})
	return nil
}

// Resume continues a paused mission.
func (g *Game) Resume() error {
	if g.state != StatePaused {
		return transitionError("resume", g.state)
	}
	g.state = StateActive
	return nil
}

// TogglePause pauses or resumes.
func (g *Game) TogglePause() error {
	if g.state == StatePaused {
		return g.Resume()
	}
	return g.Pause()
}

// SetControl presses or releases a control. Presses outside an active
// mission are ignored; releases always apply.
func (g *Game) SetControl(ctl lander.Control, pressed bool) {
	if pressed && g.state != StateActive {
		return
	}
	g.controls.Set(ctl, pressed)
}

// Tick advances the active mission by elapsedMs. A failure inside the tick
// ends the mission with a critical error instead of propagating.
func (g *Game) Tick(elapsedMs float64) (err error) {
	if g.state != StateActive {
		return ErrNotActive
	}
	defer func() {
		if r := recover(); r != nil {
			err = g.abort(fmt.Errorf("%w: %v", ErrCriticalTick, r))
		}
	}()

	g.ticked = true
	dt := lander.Integrate(g.lander, g.env, g.controls, elapsedMs, g.rng, g.sink)
	if !finite(g.lander) {
		return g.abort(fmt.Errorf("%w: non-finite lander state after %vms", ErrCriticalTick, elapsedMs))
	}
	g.flightTime += time.Duration(dt * config.ReferenceFrameMs * float64(time.Millisecond))

	streak := g.nearMiss.Streak
	out := lander.Resolve(g.lander, g.env, &g.nearMiss, g.now(), g.sink)
	if g.nearMiss.Streak > streak {
		g.metrics.NearMiss(context.Background(), g.env.Planet.Name)
		g.logger.Debug("near miss", "streak", g.nearMiss.Streak)
	}
	if out.Terminal {
		g.end(out.Success, out.Reason, out.Impact)
	}
	return nil
}

// setup rolls a new mission on the current planet and makes it active.
func (g *Game) setup() {
	g.state = StateSetup
	g.env = rollEnvironment(g.cfg, g.planetIndex, g.rng)
	g.lander = spawnLander(g.cfg, g.rng)
	g.controls = lander.Controls{}
	g.ticked = false
	g.result = nil
	g.flightTime = 0
	g.state = StateActive

	g.metrics.MissionStarted(context.Background(), g.env.Planet.Name, g.cfg.Difficulty.Name)
	g.logger.Info("mission started",
		"planet", g.env.Planet.Name,
		"difficulty", g.cfg.Difficulty.Name,
		"pad", math.Round(g.env.Pad.X),
		"obstacles", len(g.env.Obstacles),
		"score", g.score)
}

// abort ends the mission after a tick failure.
func (g *Game) abort(err error) error {
	g.logger.Error("tick failed", "err", err)
	g.metrics.TickError(context.Background())
	if g.lander != nil && (g.state == StateActive || g.state == StatePaused) {
		g.lander.Crashed = true
	}
	g.end(false, lander.Reason{Code: lander.ReasonCriticalError, Message: "Critical game error!"}, nil)
	return err
}

// end scores the mission and records the result. It runs once per mission.
// The outcome is committed before persistence and the sink are called, and
// failures in those are logged instead of propagating.
func (g *Game) end(success bool, reason lander.Reason, impact *lander.Impact) {
	if g.state != StateActive && g.state != StatePaused {
		return
	}
	planet := g.env.Planet.Name
	res := scoring.Score(scoring.Input{
		Success:   success,
		Fuel:      g.lander.Fuel,
		Impact:    impact,
		Streak:    g.nearMiss.Streak,
		ScoreMult: g.cfg.Difficulty.ScoreMult,
	})
	streak := g.nearMiss.Streak
	firstCompletion := success && !g.completed && g.planetIndex == 0
	completed := g.completed || firstCompletion

	r := &Result{
		Success:         success,
		Planet:          planet,
		Reason:          reason,
		Impact:          impact,
		Scoring:         res,
		AttemptScore:    res.Attempt,
		TotalScore:      g.score + res.Attempt,
		FirstCompletion: firstCompletion,
		CanAdvance:      success && completed && g.planetIndex < len(g.cfg.Planets)-1,
	}
	if success {
		r.Title = fmt.Sprintf("Landed on %s!", planet)
		r.Message = fmt.Sprintf("Flawless landing on %s! Incredible skill!", planet)
		if firstCompletion {
			r.Message += " You've proven your mettle. Other planets are now accessible!"
		} else {
			r.Message += " Prepare for the next challenge."
		}
		r.Message += bonusSummary(res, streak)
	} else {
		r.Title = fmt.Sprintf("Mission Failed on %s!", planet)
		r.Message = reason.Message
	}

	g.score = r.TotalScore
	g.completed = completed
	if res.ResetStreak {
		g.nearMiss.Reset()
	}
	g.result = r
	g.state = StateEnded
	g.controls = lander.Controls{}

	if firstCompletion {
		g.guard("save progress", g.saveProgress)
	}
	g.guard("save high score", func() { r.NewHighScore = g.saveHighScore() })
	g.emit(lander.Event{Kind: lander.EventStopSound, Sound: lander.SoundThrust})
	g.emit(lander.Event{Kind: lander.EventMissionEnded, X: g.lander.X, Y: g.lander.Y, Reason: reason})
	g.metrics.MissionEnded(context.Background(), planet, success, reason.Code.String(), res.Attempt)
	g.logger.Info("mission ended",
		"planet", planet,
		"success", success,
		"reason", reason.Code,
		"attempt", res.Attempt,
		"total", g.score,
		"flight", g.flightTime.Round(time.Millisecond))
}

// guard runs fn, logging a panic instead of propagating it.
func (g *Game) guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("collaborator failed", "op", op, "panic", r)
		}
	}()
	fn()
}

func (g *Game) emit(e lander.Event) {
	g.guard("emit", func() { g.sink.Emit(e) })
}

func (g *Game) saveProgress() {
	if g.persist == nil {
		return
	}
	p := storage.Progress{Completed: g.completed, PlanetIndex: g.planetIndex}
	if err := g.persist.SaveProgress(p); err != nil {
		g.logger.Warn("could not save progress", "err", err)
	}
}

func (g *Game) saveHighScore() bool {
	if g.persist == nil || g.score <= 0 {
		return false
	}
	ok, err := g.persist.SaveHighScore(storage.HighScore{Name: g.player, Score: g.score})
	if err != nil {
		g.logger.Warn("could not save high score", "err", err)
		return false
	}
	return ok
}

func bonusSummary(res scoring.Result, streak int) string {
	var b strings.Builder
	for _, bonus := range res.Bonuses {
		fmt.Fprintf(&b, " %s Bonus! (+%d)", bonus.Name, bonus.Points)
	}
	if streak > 0 {
		fmt.Fprintf(&b, " Near Miss Streak x%d!", streak)
	}
	for _, a := range res.Achievements {
		fmt.Fprintf(&b, " %s Bonus! (+%d)", a.Name, a.Bonus)
	}
	return b.String()
}

func finite(l *lander.Lander) bool {
	for _, v := range []float64{l.X, l.Y, l.VX, l.VY, l.Angle, l.Fuel} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
