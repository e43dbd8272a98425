package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/shin1244/BubbleTrans/internal/batch"
	"github.com/shin1244/BubbleTrans/internal/detect"
	"github.com/shin1244/BubbleTrans/internal/imaging"
	"github.com/shin1244/BubbleTrans/internal/ocr"
	"github.com/shin1244/BubbleTrans/internal/output"
	"github.com/shin1244/BubbleTrans/internal/translation"
)

// Deps are the long-lived model handles shared by every page of a run
type Deps struct {
	Detector   detect.Detector
	Recognizer ocr.Recognizer
	Translator translation.Translator
}

// Options control a run
type Options struct {
	SourceLang string
	TargetLang string

	// FailFast stops the run at the first failing page
	FailFast bool

	// Prepare is applied to every crop before OCR
	Prepare imaging.PrepareOptions

	// Progress goes to Out, warnings and errors to Err
	Out io.Writer
	Err io.Writer
}

// Result describes one processed page
type Result struct {
	Page    batch.Page
	Regions int
}

// Summary totals a directory run
type Summary struct {
	Pages     int
	Processed int
	Skipped   int
	// Duplicates are pages whose output name belongs to another image
	Duplicates int
	Failed     int
	Regions    int
	Errors     []error
}

// Processor handles the per-page pipeline
type Processor struct {
	deps Deps
	opts Options
}

// New creates a processor. All three handles are required.
func New(deps Deps, opts Options) (*Processor, error) {
	if deps.Detector == nil || deps.Recognizer == nil || deps.Translator == nil {
		return nil, fmt.Errorf("detector, recognizer and translator are required")
	}
	if opts.SourceLang == "" {
		opts.SourceLang = translation.DefaultSourceLang
	}
	if opts.TargetLang == "" {
		opts.TargetLang = translation.DefaultTargetLang
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return &Processor{deps: deps, opts: opts}, nil
}

// ProcessDirectory processes every pending page in dir in name order
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (Summary, error) {
	var summary Summary

	pages, err := batch.ListPages(dir)
	if err != nil {
		return summary, err
	}
	summary.Pages = len(pages)
	fmt.Fprintf(p.opts.Out, "Found %d page(s), %d to translate\n", len(pages), len(batch.Pending(pages)))

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			p.printSummary(summary)
			return summary, err
		}

		fmt.Fprintf(p.opts.Out, "\nProcessing %d/%d: %s\n", i+1, len(pages), page.Name())

		if page.Done {
			fmt.Fprintf(p.opts.Out, "  ✓ Skipping '%s' - already translated\n", page.Name())
			summary.Skipped++
			continue
		}
		if page.Duplicate != "" {
			fmt.Fprintf(p.opts.Err, "Warning: skipping '%s' - %s already belongs to '%s'\n",
				page.Name(), filepath.Base(page.OutputPath), filepath.Base(page.Duplicate))
			summary.Duplicates++
			continue
		}
		if page.Partial {
			fmt.Fprintf(p.opts.Out, "  Restarting after interrupted run, discarding %s\n", filepath.Base(batch.PartialPath(page.ImagePath)))
		}

		result, err := p.ProcessImage(ctx, page)
		if err != nil {
			fmt.Fprintf(p.opts.Err, "Error processing '%s': %v\n", page.Name(), err)
			summary.Failed++
			summary.Errors = append(summary.Errors, err)

			if p.opts.FailFast || ctx.Err() != nil {
				p.printSummary(summary)
				return summary, err
			}
			continue
		}

		summary.Processed++
		summary.Regions += result.Regions
	}

	p.printSummary(summary)
	return summary, nil
}

// ProcessImage detects, reads, translates and writes every region of page.
// The first failing region aborts the page; lines already written stay in
// the ".partial" file and the final result file is not created.
func (p *Processor) ProcessImage(ctx context.Context, page batch.Page) (Result, error) {
	result := Result{Page: page}

	img, err := imaging.Load(page.ImagePath)
	if err != nil {
		return result, err
	}

	boxes, err := p.deps.Detector.Detect(ctx, img)
	if err != nil {
		return result, fmt.Errorf("detection failed: %w", err)
	}
	fmt.Fprintf(p.opts.Out, "  Detected %d region(s)\n", len(boxes))

	w, err := output.Create(page.OutputPath)
	if err != nil {
		return result, err
	}

	for i, box := range boxes {
		region, stage, err := p.processRegion(ctx, img, box)
		if err == nil {
			stage = StageWrite
			err = w.Write(region)
		}
		if err != nil {
			if abortErr := w.Abort(); abortErr != nil {
				fmt.Fprintf(p.opts.Err, "Warning: failed to close %s: %v\n", w.PartialPath(), abortErr)
			}
			return result, &RegionError{Image: page.ImagePath, Index: i, Box: box, Stage: stage, Err: err}
		}
	}

	if err := w.Commit(); err != nil {
		return result, err
	}
	result.Regions = w.Lines()

	fmt.Fprintf(p.opts.Out, "  Wrote %s\n", page.OutputPath)
	return result, nil
}

// processRegion returns the region's translated line. Empty crops and
// regions without recognized text keep their line with empty text.
func (p *Processor) processRegion(ctx context.Context, img image.Image, box detect.Box) (output.Region, string, error) {
	region := output.Region{Box: box}

	if err := ctx.Err(); err != nil {
		return region, StageCrop, err
	}

	crop := imaging.Crop(img, box)
	if imaging.IsEmpty(crop) {
		return region, "", nil
	}

	text, err := p.deps.Recognizer.Recognize(ctx, imaging.Prepare(crop, p.opts.Prepare))
	if err != nil {
		return region, StageOCR, err
	}
	if text == "" {
		return region, "", nil
	}

	translated, err := p.deps.Translator.Translate(ctx, text, p.opts.SourceLang, p.opts.TargetLang)
	if err != nil {
		return region, StageTranslate, err
	}

	region.Text = translated
	return region, "", nil
}

func (p *Processor) printSummary(s Summary) {
	fmt.Fprintf(p.opts.Out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.opts.Out, "Total pages: %d\n", s.Pages)
	fmt.Fprintf(p.opts.Out, "Processed: %d\n", s.Processed)
	fmt.Fprintf(p.opts.Out, "Skipped (already translated): %d\n", s.Skipped)
	if s.Duplicates > 0 {
		fmt.Fprintf(p.opts.Out, "Skipped (duplicate output name): %d\n", s.Duplicates)
	}
	fmt.Fprintf(p.opts.Out, "Regions written: %d\n", s.Regions)
	if s.Failed > 0 {
		fmt.Fprintf(p.opts.Out, "Errors: %d\n", s.Failed)
	}
	fmt.Fprintf(p.opts.Out, "================================\n")
}

// IsRegionError reports whether err was caused by a single region
func IsRegionError(err error) bool {
	var regionErr *RegionError
	return errors.As(err, &regionErr)
}
