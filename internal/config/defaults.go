package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

//go:embed defaults/bouncy.yaml
var defaultBouncyYAML []byte

//go:embed defaults/marsbase.yaml
var defaultMarsYAML []byte

// DefaultFlappyConfig mirrors defaults/flappy.yaml.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{Width: 1024, Height: 768, QuadTreeDepth: 4},
		Physics: FlappyPhysics{
			Gravity:      0.75,
			FlapImpulse:  7,
			MaxFallSpeed: 14,
		},
		Walls: FlappyWalls{
			SpawnX:    512,
			DespawnX:  -530,
			BrickSize: 32,
			Rows:      12,
			GapHalf:   4,
			GapRange:  5,
			Speed:     4,
		},
		Dragon: FlappyDragon{X: -400, Width: 40, Height: 40},
		Difficulty: DifficultyConfig{
			Enabled:     true,
			Progression: ProgressionConfig{Type: "score", MaxAt: 30},
			Scaling:     ScalingConfig{SpeedMultiplier: 1, GapReduction: 2},
		},
	}
}

// DefaultBouncyConfig mirrors defaults/bouncy.yaml.
func DefaultBouncyConfig() BouncyConfig {
	return BouncyConfig{
		World: WorldConfig{Width: 1024, Height: 768, QuadTreeDepth: 4},
		Balls: BouncyBalls{
			Initial:        1,
			Size:           8,
			MaxSpeed:       1,
			BounceStrength: 0.125,
			Limit:          20000,
		},
		Mode: "exhaustive",
	}
}

// DefaultMarsConfig mirrors defaults/marsbase.yaml.
func DefaultMarsConfig() MarsConfig {
	return MarsConfig{
		World: WorldConfig{Width: 10240, Height: 7680, QuadTreeDepth: 6},
		Terrain: MarsTerrain{
			Width:        200,
			Height:       200,
			CellSize:     24,
			SolidPercent: 0.6,
			Holes:        10,
			ProbeRadius:  3,
		},
		Ship: MarsShip{
			Size:          24,
			RotateDegrees: 2,
			Thrust:        1,
			MaxSpeed:      5,
			Gravity:       0.04,
			Fuel:          1500,
			Hull:          100,
			CrashSpeed:    4,
		},
	}
}

// DefaultYAML returns the embedded default file for a game, or nil.
func DefaultYAML(gameID string) []byte {
	switch gameID {
	case "flappy":
		return defaultFlappyYAML
	case "bouncy":
		return defaultBouncyYAML
	case "marsbase":
		return defaultMarsYAML
	default:
		return nil
	}
}
