package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Quality.TargetFPS != 60 {
		t.Errorf("expected target fps 60, got %v", cfg.Quality.TargetFPS)
	}
	if cfg.Derived.ResumeDelay != time.Second {
		t.Errorf("expected 1s resume delay, got %v", cfg.Derived.ResumeDelay)
	}
	if cfg.Derived.TransitionTime != 2500*time.Millisecond {
		t.Errorf("expected 2.5s transition, got %v", cfg.Derived.TransitionTime)
	}
	if cfg.Derived.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Derived.Debounce)
	}
	if cfg.Proximity.MaxDistance != 50 {
		t.Errorf("expected max distance 50, got %v", cfg.Proximity.MaxDistance)
	}
	if cfg.Trails.ArcHeight != 0.2 {
		t.Errorf("expected arc height 0.2, got %v", cfg.Trails.ArcHeight)
	}
	if len(cfg.Quality.Tiers) != 3 {
		t.Errorf("expected 3 tiers, got %d", len(cfg.Quality.Tiers))
	}
}

func TestSectionsAndPresets(t *testing.T) {
	cfg := Defaults()

	home, ok := cfg.Section("home")
	if !ok {
		t.Fatal("expected home section")
	}
	if home.Fog != nil {
		t.Error("home section should have no fog")
	}
	if home.Position.Z != 140 {
		t.Errorf("expected home z=140, got %v", home.Position.Z)
	}

	community, ok := cfg.Section("community")
	if !ok || community.Fog == nil {
		t.Fatal("expected community section with fog")
	}
	if community.Fog.Density <= 0 {
		t.Errorf("expected positive fog density, got %v", community.Fog.Density)
	}

	if _, ok := cfg.Derived.PresetIndex["valley"]; !ok {
		t.Error("expected valley preset")
	}
}

func TestLoadOverridesMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("quality:\n  target_fps: 30\nculling:\n  lod_near: 20\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Quality.TargetFPS != 30 {
		t.Errorf("expected override target fps 30, got %v", cfg.Quality.TargetFPS)
	}
	if cfg.Culling.LODNear != 20 {
		t.Errorf("expected override lod_near 20, got %v", cfg.Culling.LODNear)
	}
	// Untouched values keep defaults
	if cfg.Culling.LODFar != 160 {
		t.Errorf("expected default lod_far 160, got %v", cfg.Culling.LODFar)
	}
}

func TestLoadRejectsInvertedLOD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("culling:\n  lod_near: 500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for lod_near > lod_far")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Defaults()
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if len(back.Transition.Sections) != len(cfg.Transition.Sections) {
		t.Errorf("expected %d sections, got %d", len(cfg.Transition.Sections), len(back.Transition.Sections))
	}
}
