package output

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shin1244/BubbleTrans/internal/batch"
	"github.com/shin1244/BubbleTrans/internal/detect"
)

// Region is one line of a result file
type Region struct {
	Box  detect.Box
	Text string
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FormatLine renders r as a single line without the trailing newline
func FormatLine(r Region) string {
	return fmt.Sprintf("%d %d %d %d %s", r.Box.Top, r.Box.Bottom, r.Box.Left, r.Box.Right, lineBreaks.Replace(r.Text))
}

// Writer appends regions to the partial file of one image
type Writer struct {
	finalPath   string
	partialPath string
	file        *os.File
	buf         *bufio.Writer
	lines       int
	closed      bool
}

// Create truncates and opens finalPath + ".partial" for writing
func Create(finalPath string) (*Writer, error) {
	partialPath := finalPath + batch.PartialExt
	file, err := os.Create(partialPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &Writer{
		finalPath:   finalPath,
		partialPath: partialPath,
		file:        file,
		buf:         bufio.NewWriter(file),
	}, nil
}

// Write appends one line and flushes it to disk
func (w *Writer) Write(r Region) error {
	if w.closed {
		return fmt.Errorf("write to closed output %s", w.partialPath)
	}
	if _, err := w.buf.WriteString(FormatLine(r) + "\n"); err != nil {
		return fmt.Errorf("failed to write region: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush region: %w", err)
	}
	w.lines++
	return nil
}

// Lines returns the number of lines written so far
func (w *Writer) Lines() int {
	return w.lines
}

// PartialPath returns the path currently being written
func (w *Writer) PartialPath() string {
	return w.partialPath
}

// Commit closes the partial file and renames it onto the final path
func (w *Writer) Commit() error {
	if err := w.close(); err != nil {
		return err
	}
	if err := os.Rename(w.partialPath, w.finalPath); err != nil {
		return fmt.Errorf("failed to commit output: %w", err)
	}
	return nil
}

// Abort closes the partial file and leaves it on disk for inspection
func (w *Writer) Abort() error {
	return w.close()
}

func (w *Writer) close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to sync output: %w", err)
	}
	return w.file.Close()
}

// ReadFile parses a result file. Lines with fewer than five fields are
// skipped; a non-integer coordinate is an error.
func ReadFile(path string) ([]Region, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var regions []Region
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 {
			continue
		}

		var coords [4]int
		for i := 0; i < 4; i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid coordinate %q", path, lineNo, fields[i])
			}
			coords[i] = n
		}

		regions = append(regions, Region{
			Box:  detect.Box{Top: coords[0], Bottom: coords[1], Left: coords[2], Right: coords[3]},
			Text: strings.Join(fields[4:], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return regions, nil
}
