// SPDX-License-Identifier: MPL-2.0

package config

import (
	"github.com/koentsje/enhancer/internal/enhance"
	"github.com/koentsje/enhancer/internal/fileset"
)

type (
	// Config holds the application configuration for one enhancement run.
	Config struct {
		// ClassesDir is the root directory holding the compiled class files.
		ClassesDir string `json:"classes_dir" mapstructure:"classes_dir"`
		// FileSets select which class files are enhanced. When empty, a
		// single fileset covering the whole classes directory is used.
		FileSets []fileset.Rule `json:"filesets,omitempty" mapstructure:"filesets"`
		// EnableAssociationManagement turns on bidirectional association
		// management in the transformer.
		EnableAssociationManagement bool `json:"enable_association_management" mapstructure:"enable_association_management"`
		// EnableDirtyTracking turns on inline dirty tracking.
		EnableDirtyTracking bool `json:"enable_dirty_tracking" mapstructure:"enable_dirty_tracking"`
		// EnableLazyInitialization turns on lazy-loadable attribute support.
		EnableLazyInitialization bool `json:"enable_lazy_initialization" mapstructure:"enable_lazy_initialization"`
		// EnableExtendedEnhancement turns on extended (non-entity) enhancement.
		EnableExtendedEnhancement bool `json:"enable_extended_enhancement" mapstructure:"enable_extended_enhancement"`
		// UI configures the command-line surface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the command-line surface.
	UIConfig struct {
		// Verbose enables debug-level logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults, used when no config file
// is present and as the base layer under any file that is.
func DefaultConfig() *Config {
	return &Config{
		ClassesDir: "target/classes",
	}
}

// Flags converts the configured capability switches into the form the
// enhancement pipeline consumes.
func (c *Config) Flags() enhance.Flags {
	return enhance.Flags{
		AssociationManagement: c.EnableAssociationManagement,
		DirtyTracking:         c.EnableDirtyTracking,
		LazyInitialization:    c.EnableLazyInitialization,
		ExtendedEnhancement:   c.EnableExtendedEnhancement,
	}
}

// DeprecationWarnings reports configuration choices that still work but
// are slated for removal. The single source of the warning texts is
// enhance.Flags.DeprecationWarnings.
func (c *Config) DeprecationWarnings() []string {
	return c.Flags().DeprecationWarnings()
}
