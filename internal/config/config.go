package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/geometry"
	"github.com/san-kum/worb/internal/quat"
	"github.com/san-kum/worb/internal/world"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultMaxObjects  = 64
	DefaultMaxContacts = 256
	DefaultRestitution = 1.0
	DefaultRelaxation  = 0.2
)

type Config struct {
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
	World    WorldConfig  `yaml:"world"`
	Bodies   []BodyConfig `yaml:"bodies"`
	Walls    *WallsConfig `yaml:"walls,omitempty"`
}

type WorldConfig struct {
	Gravity     [3]float64 `yaml:"gravity"`
	Restitution float64    `yaml:"restitution"`
	Friction    float64    `yaml:"friction"`
	Relaxation  float64    `yaml:"relaxation"`
	MaxObjects  int        `yaml:"max_objects"`
	MaxContacts int        `yaml:"max_contacts"`
}

type BodyConfig struct {
	Shape           string     `yaml:"shape"` // sphere or box
	Mass            float64    `yaml:"mass"`
	Radius          float64    `yaml:"radius,omitempty"`
	HalfExtent      [3]float64 `yaml:"half_extent,omitempty"`
	Position        [3]float64 `yaml:"position"`
	Velocity        [3]float64 `yaml:"velocity,omitempty"`
	AngularVelocity [3]float64 `yaml:"angular_velocity,omitempty"`
	Axis            [3]float64 `yaml:"axis,omitempty"`
	Angle           float64    `yaml:"angle,omitempty"`
	CanSleep        bool       `yaml:"can_sleep"`
	Damping         bool       `yaml:"damping"`
}

// WallsConfig encloses the scene in an axis-aligned box of half-spaces.
type WallsConfig struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		World: WorldConfig{
			Gravity:     [3]float64{0, -world.StandardGravity, 0},
			Restitution: DefaultRestitution,
			Friction:    0,
			Relaxation:  DefaultRelaxation,
			MaxObjects:  DefaultMaxObjects,
			MaxContacts: DefaultMaxContacts,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build constructs the world the configuration describes: shapes with
// their bodies set up, walls added, derived quantities initialized.
func (c *Config) Build() (*world.World, error) {
	wcfg := world.Config{
		Gravity:     quat.Vector(c.World.Gravity[0], c.World.Gravity[1], c.World.Gravity[2]),
		Restitution: c.World.Restitution,
		Friction:    c.World.Friction,
		Relaxation:  c.World.Relaxation,
		MaxObjects:  c.World.MaxObjects,
		MaxContacts: c.World.MaxContacts,
	}
	if wcfg.MaxObjects == 0 {
		wcfg.MaxObjects = DefaultMaxObjects
	}
	if wcfg.MaxContacts == 0 {
		wcfg.MaxContacts = DefaultMaxContacts
	}

	w, err := world.New(wcfg)
	if err != nil {
		return nil, err
	}

	for i, bc := range c.Bodies {
		shape, err := buildBody(bc)
		if err != nil {
			return nil, fmt.Errorf("config: body %d: %w", i, err)
		}
		if err := w.Add(shape); err != nil {
			return nil, err
		}
	}

	if c.Walls != nil {
		if err := addWalls(w, *c.Walls); err != nil {
			return nil, err
		}
	}

	w.Initialize()
	return w, nil
}

func buildBody(bc BodyConfig) (geometry.Shape, error) {
	b := body.New()

	var shape geometry.Shape
	var err error

	switch bc.Shape {
	case "sphere":
		var s *geometry.Sphere
		s, err = geometry.NewSphere(b, bc.Radius)
		if err == nil {
			s.SetMass(bc.Mass)
			shape = s
		}
	case "box":
		var bx *geometry.Box
		bx, err = geometry.NewBox(b, bc.HalfExtent[0], bc.HalfExtent[1], bc.HalfExtent[2])
		if err == nil {
			bx.SetMass(bc.Mass)
			shape = bx
		}
	default:
		err = fmt.Errorf("unknown shape %q", bc.Shape)
	}
	if err != nil {
		return nil, err
	}

	orientation := quat.FromAxisAngle(bc.Angle, bc.Axis[0], bc.Axis[1], bc.Axis[2])

	b.SetState(
		quat.Vector(bc.Position[0], bc.Position[1], bc.Position[2]),
		orientation,
		quat.Vector(bc.Velocity[0], bc.Velocity[1], bc.Velocity[2]),
		quat.Vector(bc.AngularVelocity[0], bc.AngularVelocity[1], bc.AngularVelocity[2]),
	)
	b.Damping = bc.Damping
	b.CanSleep = bc.CanSleep
	b.Activate()

	return shape, nil
}

func addWalls(w *world.World, walls WallsConfig) error {
	planes := []struct {
		direction [3]float64
		offset    float64
	}{
		{[3]float64{1, 0, 0}, walls.Min[0]},
		{[3]float64{-1, 0, 0}, -walls.Max[0]},
		{[3]float64{0, 1, 0}, walls.Min[1]},
		{[3]float64{0, -1, 0}, -walls.Max[1]},
		{[3]float64{0, 0, 1}, walls.Min[2]},
		{[3]float64{0, 0, -1}, -walls.Max[2]},
	}

	for _, p := range planes {
		hs, err := geometry.NewHalfSpace(
			quat.Vector(p.direction[0], p.direction[1], p.direction[2]), p.offset)
		if err != nil {
			return err
		}
		if err := w.Add(hs); err != nil {
			return err
		}
	}
	return nil
}
