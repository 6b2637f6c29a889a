package loop

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/draw"
	"github.com/tomz197/lander/internal/lander"
	"github.com/tomz197/lander/internal/mission"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen transitions do a full terminal clear so UI text from the
	// previous screen does not persist.
	state := c.game.State()
	if state != c.prevState || c.isInactive != c.wasInactive || c.shutdown != c.wasShutdown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		if state == mission.StateIdle || state == mission.StateEnded {
			c.scores = c.game.HighScores()
		}
		c.prevState = state
		c.wasInactive = c.isInactive
		c.wasShutdown = c.shutdown
	}

	c.canvas.Clear()

	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	if termWidth < MinTermWidth || termHeight < MinTermHeight {
		c.canvas.Render(c.chunkWriter)
		c.centered(termHeight/2, draw.ColorYellow, "Terminal too small")
		c.centered(termHeight/2+1, draw.ColorNone, fmt.Sprintf("need %dx%d", MinTermWidth, MinTermHeight))
		return c.chunkWriter.Flush()
	}

	if state == mission.StateIdle {
		c.drawMenuBackdrop()
	} else {
		c.drawWorld()
	}
	c.particles.Draw(c.canvas)

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerY := termHeight / 2

	if c.shutdown {
		c.drawShutdownScreen(centerY)
		return
	}
	if c.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.game.State() {
	case mission.StateIdle:
		c.drawStartScreen(termHeight)
	case mission.StateActive:
		c.drawPlayingHUD(termWidth, termHeight)
	case mission.StatePaused:
		c.drawPlayingHUD(termWidth, termHeight)
		c.drawPauseScreen(centerY)
	case mission.StateEnded:
		c.drawEndScreen(centerY)
	}
	c.drawBroadcast(termHeight)
}

// text writes s at a 1-based canvas position, clipped to the canvas width,
// and marks the covered cells for repaint on the next frame.
func (c *Client) text(col, row int, color draw.Color, s string) {
	termWidth := c.canvas.TerminalWidth()
	if row < 1 || row > c.canvas.TerminalHeight() || col > termWidth {
		return
	}
	if col < 1 {
		col = 1
	}
	if n := utf8.RuneCountInString(s); col+n-1 > termWidth {
		s = string([]rune(s)[:termWidth-col+1])
	}
	if color == draw.ColorNone {
		c.chunkWriter.WriteAt(col, row, s)
	} else {
		c.chunkWriter.WriteColored(col, row, color, s)
	}
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// centered writes s centered on a row.
func (c *Client) centered(row int, color draw.Color, s string) {
	col := (c.canvas.TerminalWidth()-utf8.RuneCountInString(s))/2 + 1
	c.text(col, row, color, s)
}

// blink is true for alternating 600ms windows.
func blink() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawMenuBackdrop draws a bare horizon behind the title screen.
func (c *Client) drawMenuBackdrop() {
	planets := c.game.Planets()
	idx := c.game.PlanetIndex()
	if idx < 0 || idx >= len(planets) {
		idx = 0
	}
	c.canvas.SetColor(draw.ParseColor(planets[idx].Color))
	c.canvas.FillRect(0, c.cfg.SurfaceY, c.cfg.Width, c.cfg.Height)
}

// drawWorld draws terrain, pad, rocks, the approach guide and the lander.
func (c *Client) drawWorld() {
	env := c.game.Environment()
	l := c.game.Lander()
	if env == nil || l == nil {
		return
	}
	cv := c.canvas

	cv.SetColor(draw.ParseColor(env.Planet.Color))
	cv.FillRect(0, env.SurfaceY, env.Width, env.Height)

	cv.SetColor(draw.ColorMagenta)
	for _, o := range env.Obstacles {
		cv.FillRect(o.X, o.Y, o.X+o.Width, o.Y+o.Height)
	}

	cv.SetColor(draw.ColorBrightGreen)
	cv.FillRect(env.Pad.Left(), env.Pad.Y-3, env.Pad.Right(), env.Pad.Y+2)

	if !l.Done() && l.Altitude(env.SurfaceY) < approachGuideRange {
		c.drawApproachGuide(l, env)
	}
	if !l.Crashed {
		c.drawLander(l)
	}
}

// approachSafe reports whether touching down right now would be a landing.
func approachSafe(l *lander.Lander, env *lander.Environment) bool {
	th := env.Thresholds()
	b := l.Bounds()
	return math.Abs(l.VY) <= th.MaxVSpeed &&
		math.Abs(l.VX) <= th.MaxHSpeed &&
		math.Abs(l.DisplayAngle()) <= th.MaxRotation &&
		b.OverlapsX(env.Pad.Left(), env.Pad.Right())
}

// drawApproachGuide draws a dotted beacon above the pad, green when the
// current approach would land.
func (c *Client) drawApproachGuide(l *lander.Lander, env *lander.Environment) {
	color := draw.ColorRed
	if approachSafe(l, env) {
		color = draw.ColorGreen
	}
	c.canvas.SetColor(color)
	top := env.SurfaceY - approachGuideHeight
	for y := env.SurfaceY - 8; y > top; y -= 8 {
		c.canvas.DrawLine(draw.Point{X: env.Pad.X, Y: y}, draw.Point{X: env.Pad.X, Y: y - 3})
	}
}

// drawLander draws the craft rotated about its center.
func (c *Client) drawLander(l *lander.Lander) {
	rad := l.Angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	w, h := l.Width, l.Height
	at := func(lx, ly float64) draw.Point {
		lx *= w
		ly *= h
		return draw.Point{X: l.X + lx*cos - ly*sin, Y: l.Y + lx*sin + ly*cos}
	}

	color := draw.ColorBrightWhite
	switch {
	case l.ThrusterMalfunctioning && blink():
		color = draw.ColorRed
	case l.FuelLeaking:
		color = draw.ColorYellow
	case l.Landed:
		color = draw.ColorBrightGreen
	}
	cv := c.canvas
	cv.SetColor(color)

	cabin := cv.BorrowPoints(4)
	cabin[0] = at(-0.3, -0.1)
	cabin[1] = at(-0.2, -0.5)
	cabin[2] = at(0.2, -0.5)
	cabin[3] = at(0.3, -0.1)
	cv.DrawPolygon(cabin, false)

	stage := cv.BorrowPoints(4)
	stage[0] = at(-0.4, -0.1)
	stage[1] = at(0.4, -0.1)
	stage[2] = at(0.4, 0.2)
	stage[3] = at(-0.4, 0.2)
	cv.DrawPolygon(stage, true)

	cv.DrawLine(at(-0.3, 0.2), at(-0.5, 0.5))
	cv.DrawLine(at(0.3, 0.2), at(0.5, 0.5))
	cv.DrawLine(at(-0.6, 0.5), at(-0.4, 0.5))
	cv.DrawLine(at(0.4, 0.5), at(0.6, 0.5))

	nozzle := cv.BorrowPoints(4)
	nozzle[0] = at(-0.1, 0.2)
	nozzle[1] = at(0.1, 0.2)
	nozzle[2] = at(0.15, 0.35)
	nozzle[3] = at(-0.15, 0.35)
	cv.DrawPolygon(nozzle, false)

	ctl := c.game.Controls()
	if ctl.Thrust && l.Fuel > 0 && !l.ThrusterMalfunctioning && !l.Done() {
		flicker := 0.5 + 0.25*float64(time.Now().UnixMilli()/50%3)
		cv.SetColor(draw.ColorBrightYellow)
		flame := cv.BorrowPoints(3)
		flame[0] = at(-0.1, 0.35)
		flame[1] = at(0.1, 0.35)
		flame[2] = at(0, 0.35+flicker)
		cv.DrawPolygon(flame, true)
	}
}

// titleArt is "LANDER" in the figlet "small" font.
var titleArt = []string{
	` _      _   _  _ ___  ___ ___  `,
	`| |    /_\ | \| |   \| __| _ \ `,
	`| |__ / _ \| .' | |) | _||   / `,
	`|____/_/ \_\_|\_|___/|___|_|_\ `,
}

// drawStartScreen draws the title, planet progression and leaderboard.
func (c *Client) drawStartScreen(termHeight int) {
	row := 2
	if termHeight >= 34 {
		for _, line := range titleArt {
			c.centered(row, draw.ColorBrightWhite, line)
			row++
		}
		row++
	} else {
		c.centered(row, draw.ColorBrightWhite, "L A N D E R")
		row += 2
	}

	c.centered(row, draw.ColorNone, "~ Touch down softly, or not at all ~")
	row++
	c.centered(row, draw.ColorGray, fmt.Sprintf("Difficulty: %s   Pilot: %s", strings.ToUpper(c.cfg.Difficulty.Name), c.game.Player()))
	row += 2

	c.centered(row, draw.ColorBrightCyan, "Planets")
	row++
	planets := c.game.Planets()
	for i, p := range planets {
		marker := "  "
		if i == c.game.PlanetIndex() {
			marker = "> "
		}
		status := "locked"
		color := draw.ColorGray
		if i == 0 || c.game.Completed() {
			status = "open"
			color = draw.ParseColor(p.Color)
		}
		c.centered(row, color, fmt.Sprintf("%s%-8s %4.2fg  %-6s", marker, p.Name, p.GravityFactor, status))
		row++
	}
	if !c.game.Completed() {
		c.centered(row, draw.ColorGray, "Land on the Moon to unlock the rest")
		row++
	}
	row++

	c.centered(row, draw.ColorBrightCyan, "High Scores")
	row++
	if len(c.scores) == 0 {
		c.centered(row, draw.ColorGray, "no landings yet")
		row++
	}
	for i, hs := range c.scores {
		c.centered(row, draw.ColorNone, fmt.Sprintf("%d. %-3s %8d", i+1, hs.Name, hs.Score))
		row++
	}
	row++

	controls := []string{
		"W / Up / SPACE . . Thrust",
		"A D / < > . . . .  Rotate",
		"P . . . . . . . . . Pause",
		"S . . . . . . . . . Sound",
		"Q . . . . . . . . .  Quit",
	}
	if row+len(controls)+2 <= termHeight {
		for _, line := range controls {
			c.centered(row, draw.ColorNone, line)
			row++
		}
		row++
	}

	if blink() {
		c.centered(row, draw.ColorBrightYellow, ">>  Press ENTER to launch  <<")
	}
}

// drawPlayingHUD draws flight instruments, score and notices.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	g := c.game
	l := g.Lander()
	env := g.Environment()
	if l == nil || env == nil {
		return
	}
	th := env.Thresholds()

	left := fmt.Sprintf("%s  Score: %-7d", strings.ToUpper(env.Planet.Name), g.Score())
	c.text(2, 1, draw.ParseColor(env.Planet.Color), left)
	if streak := g.Streak(); streak > 0 {
		c.text(2+utf8.RuneCountInString(left)+1, 1, draw.ColorBrightYellow, fmt.Sprintf("Streak x%d", streak))
	}

	filled := int(math.Round(l.Fuel / config.MaxFuel * fuelBarWidth))
	filled = max(0, min(fuelBarWidth, filled))
	fuelColor := draw.ColorGreen
	if l.Fuel < config.LowFuelThreshold {
		fuelColor = draw.ColorRed
	}
	fuel := fmt.Sprintf("Fuel [%s%s] %3.0f%%", strings.Repeat("█", filled), strings.Repeat("░", fuelBarWidth-filled), l.Fuel)
	c.text(termWidth-utf8.RuneCountInString(fuel), 1, fuelColor, fuel)

	// Second row: gauges, red when past the landing limit.
	gauge := func(ok bool) draw.Color {
		if ok {
			return draw.ColorNone
		}
		return draw.ColorBrightRed
	}
	fields := []struct {
		text  string
		color draw.Color
	}{
		{fmt.Sprintf("Alt %5.0f", math.Max(0, l.Altitude(env.SurfaceY))), draw.ColorNone},
		{fmt.Sprintf("V %5.1f m/s", l.VY*config.SpeedDisplayFactor), gauge(math.Abs(l.VY) <= th.MaxVSpeed)},
		{fmt.Sprintf("H %5.1f m/s", l.VX*config.SpeedDisplayFactor), gauge(math.Abs(l.VX) <= th.MaxHSpeed)},
		{fmt.Sprintf("Rot %4.0f°", l.DisplayAngle()), gauge(math.Abs(l.DisplayAngle()) <= th.MaxRotation)},
	}
	col := 2
	for _, f := range fields {
		c.text(col, 2, f.color, f.text)
		col += utf8.RuneCountInString(f.text) + 3
	}

	if text, color, ok := c.presenter.Notice(); ok {
		c.centered(4, color, text)
	}

	sound := "on"
	if c.presenter.Muted() {
		sound = "off"
	}
	help := fmt.Sprintf("P pause  M menu  S sound:%s  Q quit", sound)
	c.text(2, termHeight, draw.ColorGray, help)
	if c.hub != nil {
		pilots := fmt.Sprintf("Pilots: %-3d", c.hub.Players())
		c.text(termWidth-utf8.RuneCountInString(pilots), termHeight, draw.ColorGray, pilots)
	}
}

// drawPauseScreen draws the pause box.
func (c *Client) drawPauseScreen(centerY int) {
	lines := []string{
		"┌──────────────────────────┐",
		"│          PAUSED          │",
		"│                          │",
		"│  P / ENTER . . . Resume  │",
		"│  M . . . . . . . . Menu  │",
		"└──────────────────────────┘",
	}
	for i, line := range lines {
		c.centered(centerY-3+i, draw.ColorBrightWhite, line)
	}
}

// drawEndScreen shows the mission result and what can be done next.
func (c *Client) drawEndScreen(centerY int) {
	res := c.game.Result()
	if res == nil {
		return
	}
	row := centerY - 7

	if res.Success {
		c.centered(row, draw.ColorBrightGreen, "M I S S I O N   C O M P L E T E")
	} else {
		c.centered(row, draw.ColorBrightRed, "M I S S I O N   F A I L E D")
	}
	row += 2
	c.centered(row, draw.ColorBrightWhite, res.Title)
	row += 2

	width := min(c.canvas.TerminalWidth()-4, 64)
	for _, line := range wrap(res.Message, width) {
		c.centered(row, draw.ColorNone, line)
		row++
	}
	row++

	c.centered(row, draw.ColorNone, fmt.Sprintf("Attempt: %d   Total: %d", res.AttemptScore, res.TotalScore))
	row++
	if res.Impact != nil {
		c.centered(row, draw.ColorGray, fmt.Sprintf("Touchdown  V %.1f m/s  H %.1f m/s  Rot %.0f°",
			res.Impact.VSpeed*config.SpeedDisplayFactor, res.Impact.HSpeed*config.SpeedDisplayFactor, res.Impact.Rotation))
		row++
	}
	if res.NewHighScore && blink() {
		c.centered(row, draw.ColorBrightYellow, "NEW HIGH SCORE!")
	}
	row += 2

	var prompts []string
	if c.game.Completed() {
		planets := c.game.Planets()
		next := planets[(c.game.PlanetIndex()+1)%len(planets)]
		prompts = append(prompts, "[N] "+next.Name)
	}
	prompts = append(prompts, "[R] Retry", "[M] Menu")
	c.centered(row, draw.ColorBrightCyan, strings.Join(prompts, "   "))
	row++
	if res.CanAdvance {
		c.centered(row, draw.ColorGray, "ENTER continues to the next planet")
	} else {
		c.centered(row, draw.ColorGray, "ENTER retries")
	}
}

// drawBroadcast shows news from other sessions on the second to last row.
func (c *Client) drawBroadcast(termHeight int) {
	if c.broadcast.text == "" || !time.Now().Before(c.broadcast.expires) {
		return
	}
	c.centered(termHeight-1, c.broadcast.color, c.broadcast.text)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.centered(centerY-2, draw.ColorBrightYellow, "INACTIVITY WARNING")
	remaining := int(InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	c.centered(centerY, draw.ColorNone, fmt.Sprintf("You will be disconnected in %d seconds.", max(0, remaining)))
	c.centered(centerY+2, draw.ColorGray, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	c.centered(centerY-3, draw.ColorBrightRed, "SERVER SHUTTING DOWN")
	c.centered(centerY-1, draw.ColorNone, "The server is restarting for maintenance.")
	c.centered(centerY, draw.ColorNone, "Your progress and scores are saved.")
	remaining := int(c.shutdownTimer) + 1
	c.centered(centerY+2, draw.ColorNone, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.centered(centerY+4, draw.ColorGray, "Press Q to disconnect now")
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
