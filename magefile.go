//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bubbletrans"

// Default target to run when none is specified
var Default = Build

// Build compiles the bubbletrans binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/bubbletrans")
}

// BuildTesseract compiles bubbletrans with the Tesseract backends; needs
// cgo and the libtesseract/leptonica headers
func BuildTesseract() error {
	return sh.RunV("go", "build", "-tags", "tesseract", "-o", binary, "./cmd/bubbletrans")
}

// Test runs the unit tests; integration tests skip without API keys
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestTesseract also runs the Tesseract backend tests
func TestTesseract() error {
	return sh.RunV("go", "test", "-tags", "tesseract", "./internal/detect/...", "./internal/ocr/...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install puts the binary into $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/bubbletrans")
}

// Clean removes the built binary and rendered previews
func Clean() error {
	if err := sh.Rm(binary); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(".", "rendered"))
}
