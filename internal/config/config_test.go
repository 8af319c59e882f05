package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.World.Gravity[1] >= 0 {
		t.Error("default gravity should point down")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("spheres")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %d", len(cfg.Bodies))
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	found := false
	for _, name := range names {
		if name == "boxed" {
			found = true
		}
	}
	if !found {
		t.Error("expected boxed preset in the list")
	}
}

func TestBuildSpheres(t *testing.T) {
	w, err := GetPreset("spheres").Build()
	if err != nil {
		t.Fatal(err)
	}

	if len(w.Bodies()) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(w.Bodies()))
	}

	b := w.Bodies()[0]
	if !b.Active {
		t.Error("configured bodies should start awake")
	}
	if b.Mass() != 1 {
		t.Errorf("expected mass 1, got %g", b.Mass())
	}
	if b.Velocity.Z != 2 {
		t.Errorf("expected velocity 2 along z, got %g", b.Velocity.Z)
	}
}

func TestBuildWithWalls(t *testing.T) {
	w, err := GetPreset("boxed").Build()
	if err != nil {
		t.Fatal(err)
	}

	// Three bodies plus six enclosing half-spaces.
	if len(w.Shapes()) != 9 {
		t.Errorf("expected 9 shapes, got %d", len(w.Shapes()))
	}
	if len(w.Bodies()) != 3 {
		t.Errorf("expected 3 bodies, got %d", len(w.Bodies()))
	}
}

func TestBuildUnknownShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{{Shape: "torus", Mass: 1}}

	if _, err := cfg.Build(); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	cfg := GetPreset("stack")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Dt != cfg.Dt {
		t.Errorf("dt: expected %g, got %g", cfg.Dt, loaded.Dt)
	}
	if len(loaded.Bodies) != len(cfg.Bodies) {
		t.Errorf("expected %d bodies, got %d", len(cfg.Bodies), len(loaded.Bodies))
	}
	if loaded.Walls == nil {
		t.Fatal("walls should survive the round trip")
	}
	if loaded.Walls.Max != cfg.Walls.Max {
		t.Errorf("walls: expected %v, got %v", cfg.Walls.Max, loaded.Walls.Max)
	}
	if loaded.World.Friction != cfg.World.Friction {
		t.Errorf("friction: expected %g, got %g", cfg.World.Friction, loaded.World.Friction)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
