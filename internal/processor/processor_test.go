package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/shin1244/BubbleTrans/internal/batch"
	"github.com/shin1244/BubbleTrans/internal/detect"
	"github.com/shin1244/BubbleTrans/internal/testutil"
)

var lineFormat = regexp.MustCompile(`^-?\d+ -?\d+ -?\d+ -?\d+ .*$`)

type fixture struct {
	detector   *testutil.MockDetector
	recognizer *testutil.MockRecognizer
	translator *testutil.MockTranslator
	out        *bytes.Buffer
	errOut     *bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		detector:   &testutil.MockDetector{},
		recognizer: &testutil.MockRecognizer{},
		translator: &testutil.MockTranslator{},
		out:        &bytes.Buffer{},
		errOut:     &bytes.Buffer{},
	}
}

func (f *fixture) processor(t *testing.T, opts Options) *Processor {
	t.Helper()

	opts.Out = f.out
	opts.Err = f.errOut
	p, err := New(Deps{Detector: f.detector, Recognizer: f.recognizer, Translator: f.translator}, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func pageFor(path string) batch.Page {
	return batch.Page{ImagePath: path, OutputPath: batch.OutputPath(path)}
}

func TestNew(t *testing.T) {
	f := newFixture()

	p, err := New(Deps{Detector: f.detector, Recognizer: f.recognizer, Translator: f.translator}, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.opts.SourceLang != "JA" || p.opts.TargetLang != "KO" {
		t.Errorf("Default languages = %s -> %s, want JA -> KO", p.opts.SourceLang, p.opts.TargetLang)
	}
	if p.opts.Out == nil || p.opts.Err == nil {
		t.Error("Default writers not set")
	}

	if _, err := New(Deps{Detector: f.detector, Recognizer: f.recognizer}, Options{}); err == nil {
		t.Error("Expected error for missing translator")
	}
}

func TestProcessImage_NoRegions(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "blank.png")
	testutil.CreateTestPNG(t, imgPath, 64, 64)

	f := newFixture()
	result, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if result.Regions != 0 {
		t.Errorf("Regions = %d, want 0", result.Regions)
	}

	testutil.AssertFileContent(t, filepath.Join(dir, "blank.txt"), []byte{})
	testutil.AssertFileNotExists(t, filepath.Join(dir, "blank.txt.partial"))
	if len(f.recognizer.Calls) != 0 || len(f.translator.Calls) != 0 {
		t.Error("Expected no OCR or translation calls")
	}
}

func TestProcessImage_OneLinePerRegion(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	testutil.CreateTestPNG(t, imgPath, 200, 300)

	f := newFixture()
	f.detector.Boxes = []detect.Box{
		{Top: 10, Bottom: 60, Left: 150, Right: 190},
		{Top: 80, Bottom: 140, Left: 100, Right: 140},
		{Top: 200, Bottom: 290, Left: 5, Right: 60},
		{Top: 5, Bottom: 25, Left: 5, Right: 25},
	}

	result, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if result.Regions != 4 {
		t.Errorf("Regions = %d, want 4", result.Regions)
	}

	lines := testutil.ReadLines(t, filepath.Join(dir, "page.txt"))
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d: %q", len(lines), lines)
	}
	for i, line := range lines {
		if !lineFormat.MatchString(line) {
			t.Errorf("line %d %q does not match the five-field format", i, line)
		}
	}
	if lines[0] != "10 60 150 190 mock translation of text 0" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[3] != "5 25 5 25 mock translation of text 3" {
		t.Errorf("line 3 = %q", lines[3])
	}

	// Crops have the box dimensions
	if f.recognizer.Calls[1] != (image.Point{X: 40, Y: 60}) {
		t.Errorf("second crop size = %v, want (40,60)", f.recognizer.Calls[1])
	}
}

func TestProcessImage_ExactOutput(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page1.png")
	testutil.CreateTestPNG(t, imgPath, 100, 100)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 10, Left: 10, Bottom: 50, Right: 30}}
	f.recognizer.Texts = []string{"こんにちは"}
	f.translator.Translations = map[string]string{"こんにちは": "안녕하세요"}

	if _, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath)); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	testutil.AssertFileContent(t, filepath.Join(dir, "page1.txt"), []byte("10 50 10 30 안녕하세요\n"))

	if len(f.translator.Calls) != 1 || f.translator.Calls[0] != "Translate: こんにちは (JA->KO)" {
		t.Errorf("translator calls = %v", f.translator.Calls)
	}
}

func TestProcessImage_TranslationFailureStopsImage(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page2.png")
	testutil.CreateTestPNG(t, imgPath, 100, 100)

	f := newFixture()
	f.detector.Boxes = []detect.Box{
		{Top: 0, Bottom: 20, Left: 0, Right: 20},
		{Top: 30, Bottom: 50, Left: 30, Right: 50},
		{Top: 60, Bottom: 80, Left: 60, Right: 80},
	}
	f.recognizer.Texts = []string{"一", "二", "三"}
	translateErr := errors.New("quota exceeded")
	f.translator.Errors = map[string]error{"二": translateErr}

	_, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath))
	if err == nil {
		t.Fatal("Expected error")
	}

	var regionErr *RegionError
	if !errors.As(err, &regionErr) {
		t.Fatalf("Expected *RegionError, got %T: %v", err, err)
	}
	if regionErr.Stage != StageTranslate {
		t.Errorf("Stage = %q, want %q", regionErr.Stage, StageTranslate)
	}
	if regionErr.Index != 1 {
		t.Errorf("Index = %d, want 1", regionErr.Index)
	}
	if regionErr.Box != f.detector.Boxes[1] {
		t.Errorf("Box = %v, want %v", regionErr.Box, f.detector.Boxes[1])
	}
	if regionErr.Image != imgPath {
		t.Errorf("Image = %q, want %q", regionErr.Image, imgPath)
	}
	if !errors.Is(err, translateErr) {
		t.Error("RegionError does not unwrap to the translation error")
	}

	testutil.AssertFileNotExists(t, filepath.Join(dir, "page2.txt"))
	lines := testutil.ReadLines(t, filepath.Join(dir, "page2.txt.partial"))
	if len(lines) != 1 || lines[0] != "0 20 0 20 mock translation of 一" {
		t.Errorf("partial lines = %q", lines)
	}

	// The third region is never read
	if len(f.recognizer.Calls) != 2 {
		t.Errorf("Expected 2 OCR calls, got %d", len(f.recognizer.Calls))
	}
}

func TestProcessImage_OCRFailure(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	testutil.CreateTestPNG(t, imgPath, 50, 50)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}
	f.recognizer.Errors = map[int]error{0: errors.New("model offline")}

	_, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath))

	var regionErr *RegionError
	if !errors.As(err, &regionErr) || regionErr.Stage != StageOCR || regionErr.Index != 0 {
		t.Fatalf("Expected OCR RegionError for region 0, got %v", err)
	}
	if len(f.translator.Calls) != 0 {
		t.Error("Translator called after OCR failure")
	}
	lines := testutil.ReadLines(t, filepath.Join(dir, "page.txt.partial"))
	if len(lines) != 0 {
		t.Errorf("Expected empty partial file, got %q", lines)
	}
}

func TestProcessImage_MalformedBoxWrittenAsReturned(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	testutil.CreateTestPNG(t, imgPath, 50, 50)

	f := newFixture()
	f.detector.Boxes = []detect.Box{
		{Top: 40, Bottom: 10, Left: 5, Right: 30}, // inverted
		{Top: 10, Bottom: 40, Left: 5, Right: 30},
	}

	if _, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath)); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	lines := testutil.ReadLines(t, filepath.Join(dir, "page.txt"))
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", lines)
	}
	// Empty crop: no OCR, line kept with empty text
	if lines[0] != "40 10 5 30 " {
		t.Errorf("line 0 = %q, want %q", lines[0], "40 10 5 30 ")
	}
	if len(f.recognizer.Calls) != 1 {
		t.Errorf("Expected 1 OCR call, got %d", len(f.recognizer.Calls))
	}

	for _, b := range f.detector.Boxes {
		if b.WellFormed() != (b.Top < b.Bottom && b.Left < b.Right) {
			t.Errorf("WellFormed() disagrees with coordinates for %v", b)
		}
	}
}

func TestProcessImage_EmptyOCRTextNotTranslated(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	testutil.CreateTestPNG(t, imgPath, 50, 50)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}
	f.recognizer.Texts = []string{""}

	if _, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath)); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if len(f.translator.Calls) != 0 {
		t.Errorf("Expected no translation calls, got %v", f.translator.Calls)
	}
	testutil.AssertFileContent(t, filepath.Join(dir, "page.txt"), []byte("0 10 0 10 \n"))
}

func TestProcessImage_DetectionFailure(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	testutil.CreateTestPNG(t, imgPath, 50, 50)

	f := newFixture()
	f.detector.Err = errors.New("detector down")

	_, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath))
	if err == nil || IsRegionError(err) {
		t.Fatalf("Expected non-region error, got %v", err)
	}
	testutil.AssertFileNotExists(t, filepath.Join(dir, "page.txt"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "page.txt.partial"))
}

func TestProcessImage_UnreadableImage(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "broken.png")
	testutil.CreateTestFile(t, imgPath, []byte("not a png"))

	f := newFixture()
	if _, err := f.processor(t, Options{}).ProcessImage(context.Background(), pageFor(imgPath)); err == nil {
		t.Error("Expected error for unreadable image")
	}
	if len(f.detector.Calls) != 0 {
		t.Error("Detector called for unreadable image")
	}
}

func TestProcessImage_CustomLanguages(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	testutil.CreateTestPNG(t, imgPath, 50, 50)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}
	f.recognizer.Texts = []string{"猫"}

	p := f.processor(t, Options{SourceLang: "JA", TargetLang: "EN-US"})
	if _, err := p.ProcessImage(context.Background(), pageFor(imgPath)); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if f.translator.Calls[0] != "Translate: 猫 (JA->EN-US)" {
		t.Errorf("translator call = %q", f.translator.Calls[0])
	}
}

func TestProcessDirectory_SkipsDonePages(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "page1.png"), 40, 40)
	testutil.CreateTestPNG(t, filepath.Join(dir, "page2.png"), 40, 40)
	testutil.CreateTestFile(t, filepath.Join(dir, "page1.txt"), []byte("1 2 3 4 done\n"))

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}

	summary, err := f.processor(t, Options{}).ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	want := Summary{Pages: 2, Processed: 1, Skipped: 1, Regions: 1}
	if summary.Pages != want.Pages || summary.Processed != want.Processed ||
		summary.Skipped != want.Skipped || summary.Failed != 0 || summary.Regions != want.Regions {
		t.Errorf("Summary = %+v, want %+v", summary, want)
	}
	if len(f.detector.Calls) != 1 {
		t.Errorf("Expected detector to run once, got %d", len(f.detector.Calls))
	}

	testutil.AssertFileContent(t, filepath.Join(dir, "page1.txt"), []byte("1 2 3 4 done\n"))
	testutil.AssertFileExists(t, filepath.Join(dir, "page2.txt"))

	out := f.out.String()
	if !strings.Contains(out, "Skipping 'page1.png'") {
		t.Errorf("Expected skip message, got:\n%s", out)
	}
	if !strings.Contains(out, "=== Batch Processing Summary ===") {
		t.Errorf("Expected summary, got:\n%s", out)
	}
}

func TestProcessDirectory_SecondRunIsNoop(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "a.png"), 30, 30)
	testutil.CreateTestPNG(t, filepath.Join(dir, "b.png"), 30, 30)

	f := newFixture()
	p := f.processor(t, Options{})
	if _, err := p.ProcessDirectory(context.Background(), dir); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	summary, err := p.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Skipped != 2 || summary.Processed != 0 {
		t.Errorf("second run Summary = %+v", summary)
	}
	if len(f.detector.Calls) != 2 {
		t.Errorf("Expected 2 detector calls in total, got %d", len(f.detector.Calls))
	}
}

func TestProcessDirectory_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "p1.png"), 30, 30)
	testutil.CreateTestPNG(t, filepath.Join(dir, "p2.png"), 60, 60)
	testutil.CreateTestPNG(t, filepath.Join(dir, "p3.png"), 30, 30)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}
	f.recognizer.Texts = []string{"ok", "bad", "ok"}
	f.translator.Errors = map[string]error{"bad": errors.New("boom")}

	summary, err := f.processor(t, Options{}).ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 || len(summary.Errors) != 1 {
		t.Errorf("Summary = %+v", summary)
	}

	testutil.AssertFileExists(t, filepath.Join(dir, "p1.txt"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "p2.txt"))
	testutil.AssertFileExists(t, filepath.Join(dir, "p2.txt.partial"))
	testutil.AssertFileExists(t, filepath.Join(dir, "p3.txt"))

	if !strings.Contains(f.errOut.String(), "Error processing 'p2.png'") {
		t.Errorf("Expected error report, got %q", f.errOut.String())
	}
	if !strings.Contains(f.out.String(), "Errors: 1") {
		t.Errorf("Expected error count in summary, got:\n%s", f.out.String())
	}
}

func TestProcessDirectory_FailFast(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "p1.png"), 30, 30)
	testutil.CreateTestPNG(t, filepath.Join(dir, "p2.png"), 30, 30)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}
	f.recognizer.Errors = map[int]error{0: errors.New("ocr down")}

	summary, err := f.processor(t, Options{FailFast: true}).ProcessDirectory(context.Background(), dir)
	if !IsRegionError(err) {
		t.Fatalf("Expected RegionError, got %v", err)
	}
	if summary.Failed != 1 || summary.Processed != 0 {
		t.Errorf("Summary = %+v", summary)
	}
	if len(f.detector.Calls) != 1 {
		t.Errorf("Expected run to stop after first page, got %d detector calls", len(f.detector.Calls))
	}
	testutil.AssertFileNotExists(t, filepath.Join(dir, "p2.txt"))
}

func TestProcessDirectory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "p1.png"), 30, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newFixture()
	_, err := f.processor(t, Options{}).ProcessDirectory(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(f.detector.Calls) != 0 {
		t.Error("Detector called after cancellation")
	}
}

func TestProcessDirectory_SharedOutputName(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "page1.jpg"), 30, 30)
	testutil.CreateTestPNG(t, filepath.Join(dir, "page1.png"), 50, 50)

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}

	summary, err := f.processor(t, Options{}).ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if summary.Processed != 1 || summary.Duplicates != 1 {
		t.Errorf("Summary = %+v", summary)
	}
	if len(f.detector.Calls) != 1 || f.detector.Calls[0] != image.Pt(30, 30) {
		t.Errorf("Expected only page1.jpg to be detected, got %v", f.detector.Calls)
	}
	if lines := testutil.ReadLines(t, filepath.Join(dir, "page1.txt")); len(lines) != 1 {
		t.Errorf("Expected page1.txt from page1.jpg only, got %v", lines)
	}
	if !strings.Contains(f.errOut.String(), "skipping 'page1.png' - page1.txt already belongs to 'page1.jpg'") {
		t.Errorf("Expected duplicate warning, got %q", f.errOut.String())
	}
	if !strings.Contains(f.out.String(), "Skipped (duplicate output name): 1") {
		t.Errorf("Expected duplicate count in summary, got:\n%s", f.out.String())
	}
}

func TestProcessDirectory_RestartsPartialPage(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateTestPNG(t, filepath.Join(dir, "p1.png"), 30, 30)
	testutil.CreateTestFile(t, filepath.Join(dir, "p1.txt.partial"), []byte("9 9 9 9 stale\n"))

	f := newFixture()
	f.detector.Boxes = []detect.Box{{Top: 0, Bottom: 10, Left: 0, Right: 10}}
	f.recognizer.Texts = []string{"やあ"}
	f.translator.Translations = map[string]string{"やあ": "안녕"}

	summary, err := f.processor(t, Options{}).ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if summary.Processed != 1 || summary.Regions != 1 {
		t.Errorf("Summary = %+v", summary)
	}

	testutil.AssertFileContent(t, filepath.Join(dir, "p1.txt"), []byte("0 10 0 10 안녕\n"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "p1.txt.partial"))
	if !strings.Contains(f.out.String(), "discarding p1.txt.partial") {
		t.Errorf("Expected restart message, got:\n%s", f.out.String())
	}
	if !strings.Contains(f.out.String(), "Found 1 page(s), 1 to translate") {
		t.Errorf("Expected page count, got:\n%s", f.out.String())
	}
}

func TestProcessDirectory_MissingDirectory(t *testing.T) {
	f := newFixture()
	if _, err := f.processor(t, Options{}).ProcessDirectory(context.Background(), "/nonexistent/pages"); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestRegionError(t *testing.T) {
	inner := errors.New("timeout")
	err := &RegionError{
		Image: "image/page1.png",
		Index: 2,
		Box:   detect.Box{Top: 1, Bottom: 2, Left: 3, Right: 4},
		Stage: StageOCR,
		Err:   inner,
	}

	msg := err.Error()
	for _, want := range []string{"image/page1.png", "region 2", "top=1", "ocr failed", "timeout"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap does not return the cause")
	}
}
