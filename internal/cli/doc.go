// Package cli provides command-line interface setup and configuration
// for the bubbletrans application. It handles flag parsing, command
// creation, configuration management using cobra and viper, and builds the
// detector, OCR and translation backends selected by the user.
package cli
