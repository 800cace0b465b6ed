// Command sandbox runs a small platformer level in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/setanarut/universe"
	"github.com/setanarut/universe/utils/tiles"
	"github.com/setanarut/vec"
	"github.com/tanema/gween/ease"
)

const (
	cellSize    = 4.0
	runSpeed    = 6.0
	jumpSpeed   = 9.0
	impactSpeed = 7.0
)

var level = []string{
	"##############################",
	"#............................#",
	"#............................#",
	"#............................#",
	"#.....................#####..#",
	"#............................#",
	"#..........######............#",
	"#............................#",
	"#....###.....................#",
	"#............................#",
	"#.................~~~~~~.....#",
	"#.................~~~~~~.....#",
	"#######...#########~~~~~~#####",
	"#######...####################",
	"##############################",
}

type config struct {
	FPS     int
	Passes  int
	Gravity float64
	Mute    bool
	LogFile string
}

type sandbox struct {
	cfg       config
	screen    tcell.Screen
	world     *universe.World
	player    *universe.Item
	crates    []*universe.Item
	drawer    *termDrawer
	audioInit bool
	sampleRt  beep.SampleRate
	paused    bool
	logger    *log.Logger
}

func newSandbox(cfg config, logger *log.Logger) (*sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.Clear()

	s := &sandbox{
		cfg:      cfg,
		screen:   screen,
		sampleRt: beep.SampleRate(44100),
		logger:   logger,
	}
	s.reset()

	if !cfg.Mute {
		if err := s.initAudio(); err != nil {
			// Non-fatal, the sandbox runs silent
			logger.Printf("audio initialization failed: %v", err)
		}
	}
	return s, nil
}

func (s *sandbox) initAudio() error {
	err := speaker.Init(s.sampleRt, s.sampleRt.N(time.Second/10))
	if err == nil {
		s.audioInit = true
	}
	return err
}

// playImpact beeps louder and lower for harder impacts.
func (s *sandbox) playImpact(speed float64) {
	if !s.audioInit {
		return
	}
	freq := math.Max(220, 1200-40*speed)
	tone, err := generators.SineTone(s.sampleRt, freq)
	if err != nil {
		return
	}
	vol := math.Min(speed/(4*impactSpeed), 1)
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(s.sampleRt.N(40*time.Millisecond), tone),
		Base:     2,
		Volume:   math.Log2(vol),
	})
}

// reset builds the level from scratch.
func (s *sandbox) reset() {
	rows, cols := len(level), len(level[0])
	bounds := universe.NewRect(0, 0, float64(cols)*cellSize, float64(rows)*cellSize)

	w := universe.NewWorld(bounds)
	w.Gravity = vec.Vec2{Y: s.cfg.Gravity}
	w.Unit = cellSize
	w.ResolutionPasses = s.cfg.Passes
	w.Logger = s.logger

	cell := func(p vec.Vec2) byte {
		c := int(p.X / cellSize)
		r := rows - 1 - int(p.Y/cellSize)
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return '#'
		}
		return level[r][c]
	}
	solid := func(p vec.Vec2) float64 {
		if cell(p) == '#' {
			return 1
		}
		return 0
	}
	ground := universe.DefaultAttributes(universe.Rect{})
	ground.ContactFriction = 0.95
	tiles.Populate(w, tiles.Boxes(bounds, cols, rows, 0.5, solid), ground)

	water := tiles.Boxes(bounds, cols, rows, 0.5, func(p vec.Vec2) float64 {
		if cell(p) == '~' {
			return 1
		}
		return 0
	})
	for _, box := range water {
		w.Densities.Add(box, 0.07)
		w.Frictions.Add(box, 0.2)
		w.Environments.Add(box, universe.Water)
	}
	// wind blowing up the pit
	w.Forces.Add(universe.NewRect(7*cellSize, 2*cellSize, 10*cellSize, 8*cellSize), vec.Vec2{Y: 14})

	s.world = w
	s.player = universe.NewItem(universe.DefaultAttributes(
		universe.NewRectSize(vec.Vec2{X: 2 * cellSize, Y: 3 * cellSize}, vec.Vec2{X: 3, Y: 4})))
	s.player.SetFlags(universe.CanMoveItems | universe.Global)
	s.player.Listener = universe.CollisionFunc(s.onCollision)
	w.Add(s.player)

	s.crates = s.crates[:0]
	for i, x := range []float64{40, 44, 48, 80} {
		attr := universe.DefaultAttributes(universe.NewRectSize(vec.Vec2{X: x, Y: 3 * cellSize}, vec.Vec2{X: 3, Y: 3}))
		attr.Mass = 2
		attr.Elasticity = 0.3
		crate := universe.NewItem(attr)
		crate.UserData = fmt.Sprintf("crate %d", i)
		crate.Listener = universe.CollisionFunc(s.onCollision)
		w.Add(crate)
		s.crates = append(s.crates, crate)
	}
	w.AddLink(universe.NewLink(universe.CenterOf(s.crates[0]), universe.CenterOf(s.crates[1]), 40, 4, 6))

	anchor := w.AddStatic(universe.NewRectSize(vec.Vec2{X: 64, Y: 52}, vec.Vec2{X: 2, Y: 2}))
	w.AddLink(universe.NewChainLink(universe.CenterOf(anchor), universe.CenterOf(s.crates[3]), 0, 14))

	platform := universe.NewItem(universe.DefaultAttributes(
		universe.NewRectSize(vec.Vec2{X: 28, Y: 14}, vec.Vec2{X: 8, Y: 1})))
	w.Add(platform)
	platform.SetForcedMovement(&universe.ForcedSequence{
		Movements: []universe.ForcedMovement{
			&universe.ForcedGoto{Target: vec.Vec2{X: 28, Y: 34}, Duration: 3, Easing: ease.InOutQuad},
			&universe.ForcedTranslation{Duration: 1},
			&universe.ForcedGoto{Target: vec.Vec2{X: 28, Y: 14}, Duration: 3, Easing: ease.InOutQuad},
			&universe.ForcedTranslation{Duration: 1},
		},
	})

	if s.drawer == nil {
		s.drawer = &termDrawer{screen: s.screen, flags: universe.DrawItems | universe.DrawLinks}
	}
	s.drawer.view = bounds
	s.drawer.player = s.player
}

func (s *sandbox) onCollision(info *universe.CollisionInfo) bool {
	v := info.PreviousSelf().Speed.Sub(info.PreviousOther().Speed)
	if v.Mag() > impactSpeed {
		s.playImpact(v.Mag())
	}
	return true
}

func (s *sandbox) handleInput(ev *tcell.EventKey) bool {
	speed := s.player.Speed()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		speed.X = -runSpeed
	case tcell.KeyRight:
		speed.X = runSpeed
	case tcell.KeyUp:
		if s.player.Contacts().Has(universe.ContactBottom) || s.world.Environments.IsIn(s.player.BoundingBox(), universe.Water) {
			speed.Y = jumpSpeed
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'r':
			s.reset()
			return true
		case 'p':
			s.paused = !s.paused
		case 'd':
			s.drawer.flags ^= universe.DrawContactMarks | universe.DrawRegions
		case 'x':
			s.killNearest()
		}
	}
	s.player.SetSpeed(speed)
	return true
}

// killNearest kills a crate in reach of the player.
func (s *sandbox) killNearest() {
	for _, item := range s.world.PickItemsInCircle(s.player.Center(), 3*cellSize) {
		if _, ok := item.UserData.(string); ok {
			if err := s.world.Kill(item); err != nil {
				s.logger.Printf("kill %v: %v", item, err)
			}
			return
		}
	}
}

func (s *sandbox) draw() {
	s.screen.Clear()
	universe.DrawWorld(s.world, s.drawer)

	status := fmt.Sprintf(" step %d  items %d  env %v  [arrows] move  [x] smash  [d] debug  [r] reset  [q] quit",
		s.world.Stamp(), s.world.Len(), s.world.Environments.EnvironmentsAt(s.player.BoundingBox()))
	if s.paused {
		status += "  PAUSED"
	}
	_, h := s.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for i, r := range status {
		s.screen.SetContent(i, h-1, r, nil, style)
	}
	s.screen.Show()
}

func (s *sandbox) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	dt := 1 / float64(s.cfg.FPS)
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !s.handleInput(ev) {
					return
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		case <-ticker.C:
			if !s.paused {
				s.world.Step(nil, dt)
			}
			s.draw()
		}
	}
}

func (s *sandbox) cleanup() {
	if s.audioInit {
		speaker.Close()
	}
	s.screen.Fini()
}

func main() {
	var cfg config
	flag.IntVar(&cfg.FPS, "fps", 60, "frames and physics steps per second")
	flag.IntVar(&cfg.Passes, "passes", 10, "collision resolution passes per step")
	flag.Float64Var(&cfg.Gravity, "gravity", -9.81, "gravity Y component")
	flag.BoolVar(&cfg.Mute, "mute", false, "disable sound")
	flag.StringVar(&cfg.LogFile, "log", "", "write world diagnostics to this file")
	flag.Parse()

	if cfg.FPS <= 0 || cfg.Passes <= 0 {
		fmt.Fprintln(os.Stderr, "fps and passes must be positive")
		os.Exit(2)
	}

	out := io.Discard
	if cfg.LogFile != "" {
		f, err := os.Create(cfg.LogFile)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, "sandbox: ", log.LstdFlags)

	s, err := newSandbox(cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer s.cleanup()
	s.run()
}
