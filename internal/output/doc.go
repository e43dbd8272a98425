// Package output writes the per-image result files. Each detected region
// becomes one line "<top> <bottom> <left> <right> <text>". Lines go to a
// ".partial" file that is renamed onto the final path only once the whole
// image succeeded, so an existing result file is always complete.
package output
