// Package render draws the regions of committed result files onto their
// page images, optionally with each region's translation on a label, so a
// chapter can be read or checked in any image viewer.
package render
