package presence

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrMissingColumn        = errors.New("missing column")
	ErrUnparseableTimestamp = errors.New("unparseable timestamp")
	ErrUnsupportedPeriod    = errors.New("unsupported period")
)

// MissingColumnError reports required columns absent from the input.
type MissingColumnError struct {
	// Required lists every column the transformation needs.
	Required []string
	// Missing lists the subset of Required that was not found.
	Missing []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s) %s", quoteList(e.Missing))
}

// Is makes errors.Is(err, ErrMissingColumn) succeed.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// UserMessage returns the message shown to the person who uploaded the file.
func (e *MissingColumnError) UserMessage() string {
	cols := make([]string, len(e.Required))
	for i, c := range e.Required {
		cols[i] = "'" + c + "'"
	}
	switch len(cols) {
	case 0:
		return "Le fichier ne contient pas les colonnes requises."
	case 1:
		return fmt.Sprintf("Le fichier doit contenir la colonne %s.", cols[0])
	default:
		return fmt.Sprintf("Le fichier doit contenir les colonnes %s et %s.",
			strings.Join(cols[:len(cols)-1], ", "), cols[len(cols)-1])
	}
}

// UnparseableTimestampError reports a cell that cannot be read as a date-time.
type UnparseableTimestampError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
}

func (e *UnparseableTimestampError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot parse %q as a date-time", e.Row, e.Column, e.Value)
}

func (e *UnparseableTimestampError) Is(target error) bool {
	return target == ErrUnparseableTimestamp
}

// UnsupportedPeriodError reports a period selector outside Day..Year.
type UnsupportedPeriodError struct {
	Value string
}

func (e *UnsupportedPeriodError) Error() string {
	return fmt.Sprintf("unsupported period %q", e.Value)
}

func (e *UnsupportedPeriodError) Is(target error) bool {
	return target == ErrUnsupportedPeriod
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
