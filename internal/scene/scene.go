// Package scene keeps the visual entities of a game in an ECS world.
//
// The scene is both the engine's instantiator, turning spawn requests into
// flower entities whose ids become flower identities, and an observer that
// mirrors culls and full/empty changes and throws sparkles on interactions.
package scene

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/tomz197/buzz/internal/game"
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/random"
	"github.com/tomz197/buzz/internal/spawn"
)

// SparkleSettings shapes the particle bursts.
type SparkleSettings struct {
	Count    int     // Particles per burst
	Speed    float64 // Base speed, varied 50% to 150%
	Lifetime float64 // Base lifetime, varied 50% to 100%
	Drag     float64 // Velocity kept per 1/60 s
}

// DefaultSparkles is a small burst that fades in about half a second.
var DefaultSparkles = SparkleSettings{
	Count:    6,
	Speed:    3,
	Lifetime: 0.6,
	Drag:     0.95,
}

var sparkleSymbols = []rune{'*', '+', '.', '\''}

// Scene holds flower and sparkle entities.
// Like the engine it serves, it is not safe for concurrent use.
type Scene struct {
	world *ecs.World

	bloomMapper   *ecs.Map2[Position, Bloom]
	sparkleMapper *ecs.Map2[Position, Sparkle]
	posMap        *ecs.Map1[Position]
	bloomMap      *ecs.Map1[Bloom]
	blooms        *ecs.Filter2[Position, Bloom]
	sparkles      *ecs.Filter2[Position, Sparkle]

	byID     map[object.ID]ecs.Entity
	src      random.Source
	settings SparkleSettings
	expired  []ecs.Entity
}

var (
	_ game.Instantiator = (*Scene)(nil)
	_ game.Observer     = (*Scene)(nil)
)

// New creates an empty scene. src drives sparkle directions.
func New(src random.Source, settings SparkleSettings) *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:         world,
		bloomMapper:   ecs.NewMap2[Position, Bloom](world),
		sparkleMapper: ecs.NewMap2[Position, Sparkle](world),
		posMap:        ecs.NewMap1[Position](world),
		bloomMap:      ecs.NewMap1[Bloom](world),
		blooms:        ecs.NewFilter2[Position, Bloom](world),
		sparkles:      ecs.NewFilter2[Position, Sparkle](world),
		byID:          make(map[object.ID]ecs.Entity),
		src:           src,
		settings:      settings,
	}
}

// Instantiate creates a flower entity for req and returns its identity.
func (s *Scene) Instantiate(req spawn.Request) object.ID {
	pos := Position{X: req.X, Y: req.Y}
	bloom := Bloom{Definition: req.Definition, Full: req.Definition.IsFullWithPollen}
	e := s.bloomMapper.NewEntity(&pos, &bloom)
	id := object.ID(e.ID())
	s.byID[id] = e
	return id
}

// Notify mirrors engine events onto the entities.
func (s *Scene) Notify(ev game.Event) {
	switch ev.Type {
	case game.EventCulled:
		s.removeFlower(ev.Object.ID)
	case game.EventVisualState:
		if e, ok := s.byID[ev.Object.ID]; ok {
			s.bloomMap.Get(e).Full = ev.Full
		}
	case game.EventPickup, game.EventDeposit:
		s.burst(ev.Object.X, ev.Object.Y)
	}
}

func (s *Scene) removeFlower(id object.ID) {
	e, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	if s.world.Alive(e) {
		s.world.RemoveEntity(e)
	}
}

// burst scatters sparkles in a circle around (x, y).
func (s *Scene) burst(x, y float64) {
	for i := 0; i < s.settings.Count; i++ {
		angle := s.src.Float64() * 2 * math.Pi
		spd := s.settings.Speed * (0.5 + s.src.Float64())
		life := s.settings.Lifetime * (0.5 + s.src.Float64()*0.5)
		symbol := sparkleSymbols[int(s.src.Float64()*float64(len(sparkleSymbols)))%len(sparkleSymbols)]

		pos := Position{X: x, Y: y}
		sp := Sparkle{
			VX:          math.Cos(angle) * spd,
			VY:          math.Sin(angle) * spd,
			Lifetime:    life,
			MaxLifetime: life,
			Symbol:      symbol,
		}
		s.sparkleMapper.NewEntity(&pos, &sp)
	}
}

// Sync copies positions from the registry onto flower entities.
func (s *Scene) Sync(flowers []object.FallingObject) {
	for _, f := range flowers {
		e, ok := s.byID[f.ID]
		if !ok {
			continue
		}
		pos := s.posMap.Get(e)
		pos.X, pos.Y = f.X, f.Y
	}
}

// Update moves sparkles and removes expired ones.
func (s *Scene) Update(dt float64) {
	if dt <= 0 {
		return
	}
	drag := math.Pow(s.settings.Drag, dt*60)

	s.expired = s.expired[:0]
	query := s.sparkles.Query()
	for query.Next() {
		pos, sp := query.Get()
		sp.Lifetime -= dt
		if sp.Lifetime <= 0 {
			s.expired = append(s.expired, query.Entity())
			continue
		}
		sp.VX *= drag
		sp.VY *= drag
		pos.X += sp.VX * dt
		pos.Y += sp.VY * dt
	}
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
}

// Clear removes every entity.
func (s *Scene) Clear() {
	for id := range s.byID {
		s.removeFlower(id)
	}
	s.expired = s.expired[:0]
	query := s.sparkles.Query()
	for query.Next() {
		s.expired = append(s.expired, query.Entity())
	}
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
}

// EachFlower calls fn for every flower entity.
func (s *Scene) EachFlower(fn func(Position, Bloom)) {
	query := s.blooms.Query()
	for query.Next() {
		pos, bloom := query.Get()
		fn(*pos, *bloom)
	}
}

// EachSparkle calls fn for every live sparkle.
func (s *Scene) EachSparkle(fn func(Position, Sparkle)) {
	query := s.sparkles.Query()
	for query.Next() {
		pos, sp := query.Get()
		fn(*pos, *sp)
	}
}

// Counts returns the number of flower and sparkle entities.
func (s *Scene) Counts() (flowers, sparkles int) {
	s.EachFlower(func(Position, Bloom) { flowers++ })
	s.EachSparkle(func(Position, Sparkle) { sparkles++ })
	return flowers, sparkles
}
