package models

import "errors"

// ============================================================
// Extraction errors
// ============================================================

// Every failure of the extraction pipeline wraps one of these, so callers
// can branch with errors.Is while the message names the offending element.
var (
	ErrNoSvgElement       = errors.New("no <svg> element")
	ErrNoViewBox          = errors.New("no viewBox attribute")
	ErrLayerNotFound      = errors.New("layer not found")
	ErrTagMismatch        = errors.New("tag mismatch")
	ErrUnsupportedElement = errors.New("unsupported element")
	ErrPatternMismatch    = errors.New("pattern mismatch")
	ErrMissingChild       = errors.New("missing child element")
	ErrNoCenterFound      = errors.New("no center found")
)
