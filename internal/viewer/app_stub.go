//go:build !gui

package viewer

const guiBuild = false

// Run would open the viewer window; this build has no GUI support
func Run(config *Config) error {
	return ErrNoGUI
}
