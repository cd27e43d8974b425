// Package physics integrates velocity and impulses for game bodies on a fixed
// physics tick, independent of the render frame rate.
package physics

import (
	"slices"
	"time"

	"github.com/vovakirdan/quadarcade/internal/collision"
)

// TickInterval is how often the physics clock fires.
const TickInterval = 33 * time.Millisecond

// DefaultGravity is subtracted from a gravity body's vertical velocity on
// every tick. World Y grows upward.
const DefaultGravity = 0.75

// Clock accumulates frame time and fires once the accumulated time reaches
// Interval. Firing resets the accumulator to zero, so any remainder is
// dropped.
type Clock struct {
	Interval time.Duration
	acc      time.Duration
}

// NewClock returns a clock firing every TickInterval.
func NewClock() Clock {
	return Clock{Interval: TickInterval}
}

// Advance adds dt to the accumulator and reports whether a tick fired.
func (c *Clock) Advance(dt time.Duration) bool {
	c.acc += dt
	if c.acc >= c.Interval {
		c.acc = 0
		return true
	}
	return false
}

// Body is the physical state of one entity.
type Body struct {
	Position collision.Vec2
	// StartFrame is Position as it was before the last velocity step.
	StartFrame collision.Vec2
	Velocity   collision.Vec2
	Gravity    bool
}

// Impulse is a velocity change requested for one body.
type Impulse struct {
	Target uint64
	Amount collision.Vec2
	// Absolute replaces the velocity instead of adding to it.
	Absolute bool
	// Source identifies the requester. Only the last impulse from each
	// source reaches a given target in one sum.
	Source int
}

// SumImpulses applies queued impulses to bodies. For each target, impulses
// are reduced to the last one per source. If any of those is absolute, the
// one with the lowest source sets the velocity and the rest are ignored;
// otherwise all are added in ascending source order. Impulses for unknown
// targets are dropped.
func SumImpulses(bodies map[uint64]*Body, impulses []Impulse) {
	if len(impulses) == 0 {
		return
	}

	perTarget := make(map[uint64]map[int]Impulse)
	for _, imp := range impulses {
		if _, ok := bodies[imp.Target]; !ok {
			continue
		}
		bySource, ok := perTarget[imp.Target]
		if !ok {
			bySource = make(map[int]Impulse)
			perTarget[imp.Target] = bySource
		}
		bySource[imp.Source] = imp
	}

	for target, bySource := range perTarget {
		body := bodies[target]
		sources := make([]int, 0, len(bySource))
		for s := range bySource {
			sources = append(sources, s)
		}
		slices.Sort(sources)

		absolute := false
		for _, s := range sources {
			if imp := bySource[s]; imp.Absolute {
				body.Velocity = imp.Amount
				absolute = true
				break
			}
		}
		if absolute {
			continue
		}
		for _, s := range sources {
			body.Velocity = body.Velocity.Add(bySource[s].Amount)
		}
	}
}

// ApplyGravity pulls every gravity body down by g.
func ApplyGravity(bodies map[uint64]*Body, g float64) {
	for _, b := range bodies {
		if b.Gravity {
			b.Velocity.Y -= g
		}
	}
}

// ApplyVelocity moves every body by its velocity, recording where it started.
func ApplyVelocity(bodies map[uint64]*Body) {
	for _, b := range bodies {
		b.StartFrame = b.Position
		b.Position = b.Position.Add(b.Velocity)
	}
}

// CapSpeed scales v down to max length if it is longer.
func CapSpeed(v collision.Vec2, max float64) collision.Vec2 {
	if v.Len() > max {
		return v.Normalize().Scale(max)
	}
	return v
}
