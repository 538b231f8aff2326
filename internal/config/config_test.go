// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koentsje/enhancer/internal/fileset"
)

// withConfigDir points config resolution at an isolated directory for
// the duration of a test.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	SetConfigFilePathOverride("")
	t.Cleanup(func() {
		SetConfigDirOverride("")
		SetConfigFilePathOverride("")
	})
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	withConfigDir(t)

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty (defaults)", path)
	}
	if cfg.ClassesDir != "target/classes" {
		t.Errorf("ClassesDir = %q, want target/classes", cfg.ClassesDir)
	}
	if cfg.EnableDirtyTracking || cfg.EnableLazyInitialization ||
		cfg.EnableAssociationManagement || cfg.EnableExtendedEnhancement {
		t.Error("capability flags should all default to false")
	}
	if len(cfg.FileSets) != 0 {
		t.Errorf("FileSets = %v, want none", cfg.FileSets)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := withConfigDir(t)

	content := `
classes_dir: "build/classes"
enable_dirty_tracking:      true
enable_lazy_initialization: true

filesets: [
	{includes: ["org/example/**"], excludes: ["**/generated/**"]},
]
`
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path == "" {
		t.Error("resolved path is empty, want the config file path")
	}
	if cfg.ClassesDir != "build/classes" {
		t.Errorf("ClassesDir = %q, want build/classes", cfg.ClassesDir)
	}
	if !cfg.EnableDirtyTracking || !cfg.EnableLazyInitialization {
		t.Error("flags from config file not applied")
	}
	if len(cfg.FileSets) != 1 {
		t.Fatalf("FileSets = %v, want one entry", cfg.FileSets)
	}
	if got := cfg.FileSets[0].Includes; len(got) != 1 || got[0] != "org/example/**" {
		t.Errorf("Includes = %v, want [org/example/**]", got)
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	dir := withConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(`clases_dir: "typo"`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(); err == nil {
		t.Fatal("Load() accepted a config with an unknown field")
	}
}

func TestLoad_RejectsWrongType(t *testing.T) {
	dir := withConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(`enable_dirty_tracking: "yes"`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(); err == nil {
		t.Fatal("Load() accepted a boolean field with a string value")
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	withConfigDir(t)
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))

	if _, _, err := Load(); err == nil {
		t.Fatal("Load() with a missing --config file returned nil error")
	}
}

func TestDeprecationWarnings(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	warnings := cfg.DeprecationWarnings()
	if len(warnings) != 2 {
		t.Fatalf("DeprecationWarnings() = %v, want 2 entries", warnings)
	}

	cfg.EnableLazyInitialization = true
	cfg.EnableDirtyTracking = true
	if got := cfg.DeprecationWarnings(); len(got) != 0 {
		t.Errorf("DeprecationWarnings() with both flags on = %v, want none", got)
	}
}

func TestGenerateCUE_RoundTrips(t *testing.T) {
	dir := withConfigDir(t)

	cfg := DefaultConfig()
	cfg.ClassesDir = "out/classes"
	cfg.EnableExtendedEnhancement = true
	cfg.FileSets = append(cfg.FileSets, structuredFileSet())

	generated := GenerateCUE(cfg)
	if !strings.Contains(generated, `classes_dir: "out/classes"`) {
		t.Errorf("GenerateCUE() missing classes_dir: %s", generated)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(generated), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, _, err := Load()
	if err != nil {
		t.Fatalf("Load() of generated config failed: %v", err)
	}
	if loaded.ClassesDir != cfg.ClassesDir || loaded.EnableExtendedEnhancement != cfg.EnableExtendedEnhancement {
		t.Error("generated config did not round-trip")
	}
}

func structuredFileSet() fileset.Rule {
	return fileset.Rule{
		Dir:      "out/classes",
		Includes: []string{"**/*.class"},
		Excludes: []string{"**/generated/**"},
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	withConfigDir(t)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("created config not on disk: %v", err)
	}

	// Calling again is a no-op, not an error.
	if _, err := CreateDefaultConfig(); err != nil {
		t.Errorf("second CreateDefaultConfig() error: %v", err)
	}
}
