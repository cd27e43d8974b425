package physics

import (
	"testing"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/quadarcade/internal/collision"
)

func TestClockAdvance(t *testing.T) {
	c := NewClock()
	require.False(t, c.Advance(16*time.Millisecond))
	require.False(t, c.Advance(16*time.Millisecond))
	require.True(t, c.Advance(16*time.Millisecond))
	// Remainder is dropped on fire.
	require.False(t, c.Advance(32*time.Millisecond))
	require.True(t, c.Advance(time.Millisecond))
	require.True(t, c.Advance(time.Second))
}

func TestSumImpulses(t *testing.T) {
	t.Run("relative impulses add", func(t *testing.T) {
		bodies := map[uint64]*Body{1: {Velocity: collision.V(1, 1)}}
		SumImpulses(bodies, []Impulse{
			{Target: 1, Amount: collision.V(1, 0), Source: 0},
			{Target: 1, Amount: collision.V(0, 2), Source: 1},
		})
		require.Equal(t, collision.V(2, 3), bodies[1].Velocity)
	})

	t.Run("last impulse per source wins", func(t *testing.T) {
		bodies := map[uint64]*Body{1: {}}
		SumImpulses(bodies, []Impulse{
			{Target: 1, Amount: collision.V(5, 0), Source: 0},
			{Target: 1, Amount: collision.V(1, 0), Source: 0},
		})
		require.Equal(t, collision.V(1, 0), bodies[1].Velocity)
	})

	t.Run("sources are per target", func(t *testing.T) {
		bodies := map[uint64]*Body{1: {}, 2: {}}
		SumImpulses(bodies, []Impulse{
			{Target: 1, Amount: collision.V(1, 0)},
			{Target: 2, Amount: collision.V(0, 1)},
		})
		require.Equal(t, collision.V(1, 0), bodies[1].Velocity)
		require.Equal(t, collision.V(0, 1), bodies[2].Velocity)
	})

	t.Run("absolute overrides", func(t *testing.T) {
		bodies := map[uint64]*Body{1: {Velocity: collision.V(9, 9)}}
		SumImpulses(bodies, []Impulse{
			{Target: 1, Amount: collision.V(0, 1), Source: 1},
			{Target: 1, Amount: collision.V(-1, 0), Absolute: true, Source: 2},
		})
		require.Equal(t, collision.V(-1, 0), bodies[1].Velocity)
	})

	t.Run("unknown target ignored", func(t *testing.T) {
		bodies := map[uint64]*Body{1: {}}
		SumImpulses(bodies, []Impulse{{Target: 7, Amount: collision.V(1, 1)}})
		require.Equal(t, collision.Vec2{}, bodies[1].Velocity)
	})
}

func TestGravityAndVelocity(t *testing.T) {
	bodies := map[uint64]*Body{
		1: {Position: collision.V(0, 10), Gravity: true},
		2: {Position: collision.V(5, 5), Velocity: collision.V(-4, 0)},
	}
	ApplyGravity(bodies, DefaultGravity)
	ApplyVelocity(bodies)

	require.Equal(t, collision.V(0, 9.25), bodies[1].Position)
	require.Equal(t, collision.V(0, 10), bodies[1].StartFrame)
	require.Equal(t, collision.V(1, 5), bodies[2].Position)
	require.Equal(t, collision.V(5, 5), bodies[2].StartFrame)
}

func TestCapSpeed(t *testing.T) {
	require.Equal(t, collision.V(3, 0), CapSpeed(collision.V(3, 0), 5))
	capped := CapSpeed(collision.V(30, 40), 5)
	require.InDelta(t, 3, capped.X, 1e-9)
	require.InDelta(t, 4, capped.Y, 1e-9)
}

func TestSystemInWorld(t *testing.T) {
	sys := NewSystem()
	w := &ecs.World{}
	w.AddSystem(sys)

	e := ecs.NewBasic()
	body := &Body{Gravity: true}
	sys.Add(&e, body)
	require.Equal(t, 1, sys.Len())

	sys.Push(Impulse{Target: e.ID(), Amount: collision.V(2, 0)})
	w.Update(0.016)
	require.Equal(t, collision.V(2, 0), body.Velocity)
	require.Equal(t, collision.Vec2{}, body.Position, "no tick yet")

	w.Update(0.020)
	require.Equal(t, 1, sys.Ticks())
	require.Equal(t, collision.V(2, -0.75), body.Velocity)
	require.Equal(t, collision.V(2, -0.75), body.Position)

	sys.Remove(e)
	require.Equal(t, 0, sys.Len())
	_, ok := sys.Body(e.ID())
	require.False(t, ok)
}
