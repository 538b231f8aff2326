// SPDX-License-Identifier: MPL-2.0

package config

var (
	// configFilePathOverride forces Load to use one specific config file
	// (set from the --config flag). Empty means normal resolution.
	configFilePathOverride string

	// configDirOverride replaces the platform config directory, used by
	// tests to avoid touching the real user configuration.
	configDirOverride string
)

// SetConfigFilePathOverride forces subsequent Load calls to use the
// given config file exclusively.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// SetConfigDirOverride replaces the platform config directory for
// subsequent Load calls. Pass "" to restore normal resolution.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
