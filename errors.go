package pdfreflow

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrExtractionFailed indicates that the source document could not be parsed
// (corrupt, encrypted, unsupported). It aborts the conversion; no partial
// markdown is returned.
var ErrExtractionFailed = errors.New("document extraction failed")

// ErrPlaceholderLeak indicates that an internal placeholder token survived
// normalization. This is an invariant violation, never expected in correct
// operation.
var ErrPlaceholderLeak = errors.New("placeholder token survived normalization")

// Pipeline stage names used in error reporting.
const (
	StageExtract     = "extract"
	StageReconstruct = "reconstruct"
	StageMatch       = "match"
	StageNormalize   = "normalize"
	StageAssemble    = "assemble"
)

// ConversionError identifies the pipeline stage and page where a conversion
// failed. Page is 1-based; 0 means the failure was not page-scoped.
type ConversionError struct {
	Stage string
	Page  int
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s stage failed on page %d: %v", e.Stage, e.Page, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
