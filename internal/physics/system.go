package physics

import (
	"time"

	"github.com/EngoEngine/ecs"
)

// System is an ecs.System that owns the bodies of its entities. Impulses are
// summed on every update; gravity and velocity are applied only when the
// clock fires.
type System struct {
	Clock   Clock
	Gravity float64

	bodies  map[uint64]*Body
	pending []Impulse
	ticks   int

	// OnTick, if set, runs after each physics tick.
	OnTick func()
}

// NewSystem creates a system with the default clock and gravity.
func NewSystem() *System {
	return &System{
		Clock:   NewClock(),
		Gravity: DefaultGravity,
		bodies:  make(map[uint64]*Body),
	}
}

// Add starts simulating body for the entity.
func (s *System) Add(basic *ecs.BasicEntity, body *Body) {
	s.bodies[basic.ID()] = body
}

// Remove satisfies the ecs.System interface.
func (s *System) Remove(basic ecs.BasicEntity) {
	delete(s.bodies, basic.ID())
}

// Body returns the body of entity id.
func (s *System) Body(id uint64) (*Body, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

// Len returns the number of simulated bodies.
func (s *System) Len() int {
	return len(s.bodies)
}

// Push queues an impulse for the next update.
func (s *System) Push(imp Impulse) {
	s.pending = append(s.pending, imp)
}

// Ticks returns how many physics ticks have fired.
func (s *System) Ticks() int {
	return s.ticks
}

// Priority makes physics run before systems that read positions.
func (s *System) Priority() int {
	return 10
}

// Update satisfies the ecs.System interface. dt is in seconds.
func (s *System) Update(dt float32) {
	SumImpulses(s.bodies, s.pending)
	s.pending = s.pending[:0]

	if !s.Clock.Advance(time.Duration(float64(dt) * float64(time.Second))) {
		return
	}
	s.Tick()
}

// Tick runs one physics step immediately, bypassing the clock.
func (s *System) Tick() {
	ApplyGravity(s.bodies, s.Gravity)
	ApplyVelocity(s.bodies)
	s.ticks++
	if s.OnTick != nil {
		s.OnTick()
	}
}
