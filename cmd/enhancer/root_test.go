// SPDX-License-Identifier: MPL-2.0

package main

import (
	"testing"

	"github.com/koentsje/enhancer/internal/config"
	"github.com/koentsje/enhancer/internal/enhance"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestEffectiveRunConfig(t *testing.T) {
	// Not parallel: mutates the package-level cfg var.
	origCfg := cfg
	t.Cleanup(func() { cfg = origCfg })

	cfg = &config.Config{
		ClassesDir:               "build/classes",
		EnableDirtyTracking:      true,
		EnableLazyInitialization: true,
	}

	t.Run("config values used when no flags set", func(t *testing.T) {
		classesDir, flags := effectiveRunConfig(runCmd)
		if classesDir != "build/classes" {
			t.Errorf("classesDir = %q, want build/classes", classesDir)
		}
		want := enhance.Flags{DirtyTracking: true, LazyInitialization: true}
		if flags != want {
			t.Errorf("flags = %+v, want %+v", flags, want)
		}
	})

	t.Run("explicit flags override config", func(t *testing.T) {
		if err := runCmd.Flags().Set("classes-dir", "out"); err != nil {
			t.Fatal(err)
		}
		if err := runCmd.Flags().Set("enable-dirty-tracking", "false"); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			runCmd.Flags().Lookup("classes-dir").Changed = false
			runCmd.Flags().Lookup("enable-dirty-tracking").Changed = false
		})

		classesDir, flags := effectiveRunConfig(runCmd)
		if classesDir != "out" {
			t.Errorf("classesDir = %q, want out", classesDir)
		}
		if flags.DirtyTracking {
			t.Error("DirtyTracking = true, want flag override to false")
		}
		if !flags.LazyInitialization {
			t.Error("LazyInitialization = false, want config value true")
		}
	})
}
