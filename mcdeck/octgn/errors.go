package octgn

import "fmt"

// FormatError reports malformed input in one of the textual or XML
// wire formats. Decoding stops at the first violation.
type FormatError struct {
	msg string
}

func (e *FormatError) Error() string { return e.msg }

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

// SchemaViolation reports a property write rejected by the card
// property schema. Field is the schema field name, or empty when the
// field itself is unknown.
type SchemaViolation struct {
	Field string
	msg   string
}

func (e *SchemaViolation) Error() string { return e.msg }

func schemaViolationf(field, format string, args ...any) *SchemaViolation {
	return &SchemaViolation{Field: field, msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports a cross-entity rule failure, such as a deck
// that cannot be exported or a data path with the wrong shape.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ArchiveLayoutError reports a card set archive whose directory tree
// violates the required layout. Reason identifies the first rule that
// failed and is surfaced to the user verbatim.
type ArchiveLayoutError struct {
	Reason string
}

func (e *ArchiveLayoutError) Error() string { return e.Reason }
