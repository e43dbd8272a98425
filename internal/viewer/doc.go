// Package viewer is a desktop page viewer for translated chapters. Pages
// are shown with their regions outlined; hovering a region shows its
// translation, as does the optional label overlay.
//
// The window needs cgo and OpenGL, so it is only built with -tags gui.
// Page navigation and hit testing build everywhere.
package viewer
