package models

// Severity distinguishes recoverable extraction errors from warnings.
type Severity string

const (
	// SeverityError marks a feature part that could not be fully parsed.
	SeverityError Severity = "error"
	// SeverityWarning marks partial or truncated output.
	SeverityWarning Severity = "warning"
)

// Diagnostic records a non-fatal problem encountered during extraction.
// Diagnostics are attached to the final analysis instead of aborting it.
type Diagnostic struct {
	// Severity is the diagnostic severity.
	Severity Severity `json:"severity"`
	// Feature names the extractor or feature category that produced it.
	Feature string `json:"feature"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Detail carries optional technical detail.
	Detail string `json:"detail,omitempty"`
}
