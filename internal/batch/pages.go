package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// OutputExt is the extension of a committed page translation
	OutputExt = ".txt"
	// PartialExt is appended to OutputPath while a page is being written
	PartialExt = ".partial"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Page is one manga page image found in the input directory
type Page struct {
	ImagePath  string
	OutputPath string
	// Done is true when OutputPath already exists from an earlier run
	Done bool
	// Partial is true when an interrupted run left PartialPath behind
	Partial bool
	// Duplicate names the image that already maps to OutputPath, as
	// page1.png and page1.jpg both do. Such a page is never processed.
	Duplicate string
}

// Name returns the base file name of the page image
func (p Page) Name() string {
	return filepath.Base(p.ImagePath)
}

// ListPages returns every image directly inside dir, sorted by file name.
// Output files, partial files, sub-directories and non-image files are
// never returned as pages.
func ListPages(dir string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var pages []Page
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if IsOutputFile(name) || !IsImageFile(name) {
			continue
		}

		imagePath := filepath.Join(dir, name)
		pages = append(pages, Page{
			ImagePath:  imagePath,
			OutputPath: OutputPath(imagePath),
			Done:       IsProcessed(imagePath),
			Partial:    hasPartial(imagePath),
		})
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].ImagePath < pages[j].ImagePath
	})

	// The first image in name order owns a shared output path
	owners := make(map[string]string, len(pages))
	for i := range pages {
		if owner, ok := owners[pages[i].OutputPath]; ok {
			pages[i].Duplicate = owner
			continue
		}
		owners[pages[i].OutputPath] = pages[i].ImagePath
	}

	return pages, nil
}

// Pending returns the pages that still need processing
func Pending(pages []Page) []Page {
	var pending []Page
	for _, p := range pages {
		if !p.Done && p.Duplicate == "" {
			pending = append(pending, p)
		}
	}
	return pending
}

// OutputPath returns the text file that holds the translation of imagePath:
// the image extension is replaced by .txt
func OutputPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + OutputExt
}

// PartialPath returns the in-progress file for imagePath
func PartialPath(imagePath string) string {
	return OutputPath(imagePath) + PartialExt
}

// IsProcessed reports whether the committed output for imagePath exists.
// A leftover .partial file does not count.
func IsProcessed(imagePath string) bool {
	info, err := os.Stat(OutputPath(imagePath))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func hasPartial(imagePath string) bool {
	info, err := os.Stat(PartialPath(imagePath))
	return err == nil && info.Mode().IsRegular()
}

// IsOutputFile reports whether name is a page output or partial output
func IsOutputFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == OutputExt || ext == PartialExt
}

// IsImageFile reports whether name has a supported image extension
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
