package processor

import (
	"fmt"

	"github.com/shin1244/BubbleTrans/internal/detect"
)

// Stages at which a region can fail
const (
	StageCrop      = "crop"
	StageOCR       = "ocr"
	StageTranslate = "translate"
	StageWrite     = "write"
)

// RegionError reports the region that stopped an image
type RegionError struct {
	Image string
	Index int // zero-based position in the detector's output
	Box   detect.Box
	Stage string
	Err   error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("%s: region %d %s: %s failed: %v", e.Image, e.Index, e.Box, e.Stage, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}
