package xlanalyze

import (
	"errors"
	"fmt"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a readable workbook package.
var ErrInvalidFormat = errors.New("invalid workbook format")

// AnalyzeError is returned when analysis cannot run to completion. Partial
// holds whatever was extracted before the failure; it is nil when the
// failure happened before any extraction started.
type AnalyzeError struct {
	Path    string
	Err     error
	Partial *models.WorkbookAnalysis
}

func (e *AnalyzeError) Error() string {
	return fmt.Sprintf("analyzing %q: %v", e.Path, e.Err)
}

func (e *AnalyzeError) Unwrap() error {
	return e.Err
}

// FeatureError represents a recoverable failure in one feature extractor.
// It is converted into a Diagnostic on the analysis result rather than
// surfaced as a returned error.
type FeatureError struct {
	Feature string
	Err     error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Feature, e.Err)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}
