package lifecycle

import (
	"fmt"
	"strings"
	"time"
)

// Field length caps match the backing columns.
const (
	maxCompanyNameLen = 255
	maxJobTitleLen    = 255
	maxJobURLLen      = 1000
	maxNotesLen       = 500
	maxReasonLen      = 500
	maxNoteContentLen = 10000
)

// validateInput checks the caller-supplied descriptive fields before any
// store mutation.
func validateInput(in ApplicationInput) error {
	if strings.TrimSpace(in.CompanyName) == "" {
		return &ValidationError{Msg: "company name is required"}
	}
	if len(in.CompanyName) > maxCompanyNameLen {
		return &ValidationError{Msg: fmt.Sprintf("company name must not exceed %d characters", maxCompanyNameLen)}
	}
	if strings.TrimSpace(in.JobTitle) == "" {
		return &ValidationError{Msg: "job title is required"}
	}
	if len(in.JobTitle) > maxJobTitleLen {
		return &ValidationError{Msg: fmt.Sprintf("job title must not exceed %d characters", maxJobTitleLen)}
	}
	if in.DateApplied.IsZero() {
		return &ValidationError{Msg: "date applied is required"}
	}
	if in.DateApplied.After(endOfToday()) {
		return &ValidationError{Msg: "date applied cannot be in the future"}
	}
	if in.JobURL != nil && len(*in.JobURL) > maxJobURLLen {
		return &ValidationError{Msg: fmt.Sprintf("job URL must not exceed %d characters", maxJobURLLen)}
	}
	if in.Notes != nil && len(*in.Notes) > maxNotesLen {
		return &ValidationError{Msg: fmt.Sprintf("notes must not exceed %d characters", maxNotesLen)}
	}
	return nil
}

func validateReason(reason string) error {
	if len(reason) > maxReasonLen {
		return &ValidationError{Msg: fmt.Sprintf("reason must not exceed %d characters", maxReasonLen)}
	}
	return nil
}

func validateNoteContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Msg: "note content is required"}
	}
	if len(content) > maxNoteContentLen {
		return &ValidationError{Msg: fmt.Sprintf("note content must not exceed %d characters", maxNoteContentLen)}
	}
	return nil
}

// endOfToday returns the last instant of the current UTC day, so that a
// date-only value for today never counts as future.
func endOfToday() time.Time {
	now := time.Now().UTC()
	y, m, d := now.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
}
