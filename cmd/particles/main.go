// Package main provides an interactive viewer for particle effect presets.
//
// Usage:
//
//	go run cmd/particles/main.go [flags]
//
// Flags:
//
//	--effects <dir>   Effect preset directory (default assets/effects)
//	--effect <name>   Start with a specific effect
//	--auto-play       Cycle through effects every 4 seconds
//	--verbose         Enable verbose logging (default off)
//
// Controls:
//
//	Mouse Click       - Spawn the current effect at the cursor
//	Left/Right Arrow  - Switch to previous/next effect
//	Space             - Restart the current effect
//	P                 - Pause/resume emission
//	M                 - Toggle emitter motion (orbit, for distance-driven effects)
//	Up/Down Arrow     - Move the camera closer/farther
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/pfx/pkg/config"
	"github.com/decker502/pfx/pkg/particle"
	"github.com/decker502/pfx/pkg/viewer"
	"github.com/decker502/pfx/pkg/vmath"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	// Fixed simulation step in ms; ebiten ticks at 60 TPS.
	tickMs = 1000.0 / 60.0
)

var (
	effectsFlag  = flag.String("effects", "assets/effects", "Effect preset directory")
	effectFlag   = flag.String("effect", "", "Start with a specific effect name")
	autoPlayFlag = flag.Bool("auto-play", false, "Auto cycle through effects every 4 seconds")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

var errQuit = errors.New("quit requested")

// emitterNode orbits the emitter around the scene origin when motion is
// enabled, which is how distance-driven presets come alive.
type emitterNode struct {
	pos    vmath.Vector3
	moving bool
	angle  float64
}

func (n *emitterNode) WorldPosition() (vmath.Vector3, bool) { return n.pos, true }

func (n *emitterNode) advance() {
	if !n.moving {
		return
	}
	n.angle += 2 * math.Pi / 240 // one orbit every 4 seconds
	n.pos = vmath.Vector3{X: 2 * math.Cos(n.angle), Y: 0.5 * math.Sin(2*n.angle), Z: 0}
}

// ViewerGame implements ebiten.Game for the preset viewer.
type ViewerGame struct {
	effects      []*config.EffectConfig
	currentIndex int

	emitter *particle.Emitter
	node    *emitterNode
	nowMs   float64

	camera   *viewer.Camera
	settings *viewer.SettingsManager
	dot      *ebiten.Image // 1x1 white quad scaled per particle

	autoPlay     bool
	lastSwitch   time.Time
	paused       bool
	statusOutput string
}

// NewViewerGame loads the presets and builds the first emitter.
func NewViewerGame(sm *viewer.SettingsManager) (*ViewerGame, error) {
	effects, err := config.LoadEffectDir(*effectsFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load effects: %w", err)
	}

	startIndex := 0
	startName := *effectFlag
	if startName == "" {
		startName = sm.GetSettings().LastEffect
	}
	for i, effect := range effects {
		if effect.Name == startName {
			startIndex = i
			break
		}
	}

	dot := ebiten.NewImage(1, 1)
	dot.Fill(color.White)

	g := &ViewerGame{
		effects:      effects,
		currentIndex: startIndex,
		node:         &emitterNode{},
		camera:       viewer.NewCamera(screenWidth, screenHeight, sm.GetSettings().CameraDist),
		settings:     sm,
		dot:          dot,
		autoPlay:     *autoPlayFlag || sm.GetSettings().AutoPlay,
		lastSwitch:   time.Now(),
	}
	if err := g.applyCurrentEffect(); err != nil {
		return nil, err
	}
	log.Printf("[Viewer] loaded %d effects from %s, starting with %s",
		len(effects), *effectsFlag, effects[startIndex].Name)
	return g, nil
}

// applyCurrentEffect builds a fresh emitter from the selected preset.
func (g *ViewerGame) applyCurrentEffect() error {
	effect := g.effects[g.currentIndex]

	e := particle.NewEmitter(g.node)
	if err := effect.Apply(e); err != nil {
		return fmt.Errorf("failed to apply effect %s: %w", effect.Name, err)
	}
	e.SetRun(!g.paused)

	g.emitter = e
	g.statusOutput = fmt.Sprintf("Effect: %s", effect.Name)
	g.settings.GetSettings().LastEffect = effect.Name
	log.Printf("[Viewer] switched to effect %s", effect.Name)
	return nil
}

func (g *ViewerGame) switchEffect(delta int) {
	n := len(g.effects)
	g.currentIndex = ((g.currentIndex+delta)%n + n) % n
	if err := g.applyCurrentEffect(); err != nil {
		log.Printf("[Viewer] %v", err)
		g.statusOutput = err.Error()
	}
	g.lastSwitch = time.Now()
}

// Update handles input and advances the simulation one fixed tick.
func (g *ViewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.switchEffect(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.switchEffect(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.emitter.ResetEmissionCycle(true)
		g.emitter.SetRun(true)
		g.paused = false
		g.statusOutput = "Restarted"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		g.emitter.SetRun(!g.paused)
		if g.paused {
			g.statusOutput = "Paused"
		} else {
			g.statusOutput = "Resumed"
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.node.moving = !g.node.moving
		if g.node.moving {
			g.statusOutput = "Emitter orbiting"
		} else {
			g.statusOutput = "Emitter parked"
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.adjustCamera(-0.5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.adjustCamera(0.5)
	}

	// Spawn at mouse click: the cursor unprojects onto the z=0 plane and
	// the emitter restarts there.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.spawnAt(g.camera.Unproject(float64(mx), float64(my)))
	}

	if g.autoPlay && !g.paused && time.Since(g.lastSwitch) > 4*time.Second {
		g.switchEffect(1)
	}

	g.node.advance()
	g.nowMs += tickMs
	g.emitter.Update(g.nowMs)

	// A finished one-shot restarts in auto-play so the reel keeps moving.
	if g.autoPlay && g.emitter.FinishedEmissionCycle() && g.emitter.LiveCount() == 0 {
		g.emitter.ResetEmissionCycle(true)
	}
	return nil
}

// spawnAt parks the emitter node at the given scene position and restarts
// the effect there.
func (g *ViewerGame) spawnAt(pos vmath.Vector3) {
	g.node.moving = false
	g.node.pos = pos
	g.emitter.ResetEmissionCycle(true)
	g.emitter.SetRun(true)
	g.paused = false
	name := g.effects[g.currentIndex].Name
	g.statusOutput = fmt.Sprintf("Spawned %s at (%.2f, %.2f)", name, pos.X, pos.Y)
	log.Printf("[Viewer] spawned %s at (%.2f, %.2f)", name, pos.X, pos.Y)
}

func (g *ViewerGame) adjustCamera(delta float64) {
	dist := g.camera.Distance + delta
	if dist < 1 {
		dist = 1
	}
	if dist > 30 {
		dist = 30
	}
	g.camera.Distance = dist
	g.settings.GetSettings().CameraDist = dist
	g.statusOutput = fmt.Sprintf("Camera distance: %.1f", dist)
}

// Draw renders every live particle as a perspective-scaled quad.
func (g *ViewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{18, 18, 28, 255})

	nodePos, _ := g.node.WorldPosition()
	g.emitter.ForEachLive(func(p *particle.Particle) {
		world := p.Position
		if p.LocalBasis {
			world = nodePos.Add(p.Position)
		}
		x, y, scale, ok := g.camera.Project(world)
		if !ok {
			return
		}

		// Base particle size of 0.06 scene units, modulated per axis by
		// the scale channel (quads only use X/Y).
		w := 0.06 * p.Scale.X * scale
		h := 0.06 * p.Scale.Y * scale
		if w <= 0 || h <= 0 {
			return
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(w, h)
		op.GeoM.Translate(-w/2, -h/2)
		if p.Rotation.Z != 0 {
			op.GeoM.Rotate(p.Rotation.Z)
		}
		op.GeoM.Translate(x, y)
		op.ColorScale.Scale(
			float32(p.Color.X), float32(p.Color.Y), float32(p.Color.Z),
			float32(p.Opacity))
		screen.DrawImage(g.dot, op)
	})

	g.drawUI(screen)
}

func (g *ViewerGame) drawUI(screen *ebiten.Image) {
	effect := g.effects[g.currentIndex]
	title := fmt.Sprintf("Particle Viewer - %s (%d/%d)", effect.Name, g.currentIndex+1, len(g.effects))
	ebitenutil.DebugPrintAt(screen, title, 10, 10)
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("Live: %d / %d", g.emitter.LiveCount(), g.emitter.MaxParticles()), 10, 30)
	if g.statusOutput != "" {
		ebitenutil.DebugPrintAt(screen, g.statusOutput, 10, 50)
	}

	controls := []string{
		"Click = Spawn at cursor  <-/-> = Switch effect  Space = Restart  P = Pause",
		"M = Orbit emitter  Up/Down = Camera distance  Q/Esc = Quit",
	}
	y := screenHeight - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED (P to resume)", screenWidth-200, 10)
	} else if g.autoPlay {
		ebitenutil.DebugPrintAt(screen, "AUTO-PLAY", screenWidth-120, 10)
	}
}

// Layout returns the fixed logical screen size.
func (g *ViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	gdataManager, err := gdata.Open(gdata.Config{AppName: "pfx_viewer"})
	if err != nil {
		log.Printf("[Viewer] Warning: persistent settings unavailable: %v", err)
		gdataManager = nil
	}
	sm := viewer.NewSettingsManager(gdataManager)

	game, err := NewViewerGame(sm)
	if err != nil {
		log.Fatal("Failed to initialize viewer:", err)
	}

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Particle Effect Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(game)

	if err := sm.Save(); err != nil {
		log.Printf("[Viewer] failed to save settings: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, errQuit) {
		log.Fatal(runErr)
	}
	os.Exit(0)
}
