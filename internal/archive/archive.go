package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shin1244/BubbleTrans/internal/batch"
)

// ArchiveOutputs moves the result files of dir, committed and partial, to
// dir/archive/outputs-<timestamp>/ so the next run processes every page
// again. It returns the archive path; nothing is created when dir has no
// result files.
func ArchiveOutputs(dir string, w io.Writer) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("image directory does not exist: %s", dir)
	}

	var outputs []string
	for _, entry := range entries {
		if !entry.IsDir() && batch.IsOutputFile(entry.Name()) {
			outputs = append(outputs, entry.Name())
		}
	}
	if len(outputs) == 0 {
		fmt.Fprintf(w, "No result files to archive in %s\n", dir)
		return "", nil
	}

	archiveDir := filepath.Join(dir, "archive")

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("outputs-%s", timestamp))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("outputs-%s", timestamp))
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, name := range outputs {
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(archivePath, name)); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	fmt.Fprintf(w, "Archived %d result file(s) to: %s\n", len(outputs), archivePath)
	return archivePath, nil
}
