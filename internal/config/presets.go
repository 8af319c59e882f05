package config

import "github.com/san-kum/worb/internal/world"

var Presets = map[string]*Config{
	// Two equal spheres on a head-on course, no gravity. With perfectly
	// elastic contacts they should swap velocities.
	"spheres": {
		Dt: 0.01, Duration: 10.0,
		World: WorldConfig{
			Gravity:     [3]float64{0, 0, 0},
			Restitution: 1.0,
			Relaxation:  DefaultRelaxation,
		},
		Bodies: []BodyConfig{
			{Shape: "sphere", Mass: 1, Radius: 0.5, Position: [3]float64{0, 0, -3}, Velocity: [3]float64{0, 0, 2}},
			{Shape: "sphere", Mass: 1, Radius: 0.5, Position: [3]float64{0, 0, 3}, Velocity: [3]float64{0, 0, -2}},
		},
	},

	// A column of boxes dropped onto the floor; settles and sleeps.
	"stack": {
		Dt: 0.005, Duration: 20.0,
		World: WorldConfig{
			Gravity:     [3]float64{0, -world.StandardGravity, 0},
			Restitution: 0.2,
			Friction:    0.6,
			Relaxation:  DefaultRelaxation,
		},
		Bodies: []BodyConfig{
			{Shape: "box", Mass: 4, HalfExtent: [3]float64{0.5, 0.5, 0.5}, Position: [3]float64{0, 0.6, 0}, CanSleep: true, Damping: true},
			{Shape: "box", Mass: 4, HalfExtent: [3]float64{0.5, 0.5, 0.5}, Position: [3]float64{0, 1.8, 0}, CanSleep: true, Damping: true},
			{Shape: "box", Mass: 4, HalfExtent: [3]float64{0.5, 0.5, 0.5}, Position: [3]float64{0, 3.0, 0}, CanSleep: true, Damping: true},
		},
		Walls: &WallsConfig{Min: [3]float64{-5, 0, -5}, Max: [3]float64{5, 20, 5}},
	},

	// Mixed bodies bouncing inside a closed box.
	"boxed": {
		Dt: 0.01, Duration: 30.0,
		World: WorldConfig{
			Gravity:     [3]float64{0, -world.StandardGravity, 0},
			Restitution: 0.8,
			Friction:    0.1,
			Relaxation:  DefaultRelaxation,
		},
		Bodies: []BodyConfig{
			{Shape: "sphere", Mass: 1, Radius: 0.4, Position: [3]float64{-1, 3, 0}, Velocity: [3]float64{2, 0, 1}, CanSleep: true, Damping: true},
			{Shape: "sphere", Mass: 2, Radius: 0.6, Position: [3]float64{1, 4, 1}, Velocity: [3]float64{-1, 0, -2}, CanSleep: true, Damping: true},
			{Shape: "box", Mass: 3, HalfExtent: [3]float64{0.4, 0.4, 0.4}, Position: [3]float64{0, 5, -1}, AngularVelocity: [3]float64{1, 2, 0}, CanSleep: true, Damping: true},
		},
		Walls: &WallsConfig{Min: [3]float64{-4, 0, -4}, Max: [3]float64{4, 12, 4}},
	},

	// A single tumbling box dropped on the floor.
	"drop": {
		Dt: 0.005, Duration: 10.0,
		World: WorldConfig{
			Gravity:     [3]float64{0, -world.StandardGravity, 0},
			Restitution: 0.4,
			Friction:    0.3,
			Relaxation:  DefaultRelaxation,
		},
		Bodies: []BodyConfig{
			{Shape: "box", Mass: 2, HalfExtent: [3]float64{0.5, 0.3, 0.4}, Position: [3]float64{0, 5, 0}, Axis: [3]float64{1, 1, 0}, Angle: 0.7, AngularVelocity: [3]float64{0, 3, 1}, CanSleep: true, Damping: true},
		},
		Walls: &WallsConfig{Min: [3]float64{-6, 0, -6}, Max: [3]float64{6, 15, 6}},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
