// Package processor runs the translation pipeline. For every page image it
// detects text regions, crops and recognizes each one, translates the text
// and writes one line per region to the page's result file. Pages that
// already have a result file are skipped, so an interrupted run can simply
// be started again.
package processor
