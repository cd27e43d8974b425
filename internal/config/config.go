// Package config loads per-game YAML settings and scales difficulty as a
// round progresses.
package config

// WorldConfig sizes the collision world of a game. Width and Height are in
// world units; the world is centered on the origin.
type WorldConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	QuadTreeDepth int     `yaml:"quadtree_depth"`
}

// FlappyConfig configures Flappy Dragon.
type FlappyConfig struct {
	World      WorldConfig      `yaml:"world"`
	Physics    FlappyPhysics    `yaml:"physics"`
	Walls      FlappyWalls      `yaml:"walls"`
	Dragon     FlappyDragon     `yaml:"dragon"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

type FlappyPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	FlapImpulse  float64 `yaml:"flap_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
}

// FlappyWalls describes the brick walls. A wall is a column of bricks at
// rows -Rows..Rows with a gap of GapHalf bricks either side of the gap row.
type FlappyWalls struct {
	SpawnX    float64 `yaml:"spawn_x"`
	DespawnX  float64 `yaml:"despawn_x"`
	BrickSize float64 `yaml:"brick_size"`
	Rows      int     `yaml:"rows"`
	GapHalf   int     `yaml:"gap_half"`
	GapRange  int     `yaml:"gap_range"`
	Speed     float64 `yaml:"speed"`
}

type FlappyDragon struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BouncyConfig configures the Bouncy Balls collision benchmark.
type BouncyConfig struct {
	World WorldConfig `yaml:"world"`
	Balls BouncyBalls `yaml:"balls"`
	// Mode is "exhaustive" or "first-match".
	Mode string `yaml:"mode"`
}

type BouncyBalls struct {
	Initial        int     `yaml:"initial"`
	Size           float64 `yaml:"size"`
	MaxSpeed       float64 `yaml:"max_speed"`
	BounceStrength float64 `yaml:"bounce_strength"`
	Limit          int     `yaml:"limit"`
}

// MarsConfig configures Mars Base One.
type MarsConfig struct {
	World   WorldConfig `yaml:"world"`
	Terrain MarsTerrain `yaml:"terrain"`
	Ship    MarsShip    `yaml:"ship"`
}

// MarsTerrain controls cave generation. Width and Height are in cells.
type MarsTerrain struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	CellSize     float64 `yaml:"cell_size"`
	SolidPercent float64 `yaml:"solid_percent"`
	Holes        int     `yaml:"holes"`
	// ProbeRadius is how many cells around the ship are tested for contact.
	ProbeRadius int `yaml:"probe_radius"`
}

type MarsShip struct {
	Size          float64 `yaml:"size"`
	RotateDegrees float64 `yaml:"rotate_degrees"`
	Thrust        float64 `yaml:"thrust"`
	MaxSpeed      float64 `yaml:"max_speed"`
	Gravity       float64 `yaml:"gravity"`
	Fuel          int     `yaml:"fuel"`
	Hull          int     `yaml:"hull"`
	CrashSpeed    float64 `yaml:"crash_speed"`
}

// DifficultyConfig controls difficulty progression.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0 easy, 1 hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time" or "none"
	MaxAt int    `yaml:"max_at"` // score or ticks at which the level reaches 1
}

type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	GapReduction    int     `yaml:"gap_reduction"`
}

// DifficultyPreset names a starting difficulty.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name is normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

func initialLevel(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0
	}
}

// Apply sets the difficulty's starting level from preset. The fixed preset
// turns progression off.
func (d *DifficultyConfig) Apply(preset DifficultyPreset) {
	if preset == DifficultyFixed {
		d.Enabled = false
		return
	}
	d.Enabled = true
	d.InitialLevel = initialLevel(preset)
}
