// Package batch enumerates the manga pages of an image directory and maps
// each page to its translation output file. A page counts as processed
// only when its committed .txt output exists.
package batch
