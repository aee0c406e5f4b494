// Package validator enforces structural and length constraints on
// generated fields before anything reaches the record store.
package validator

import (
	"fmt"
	"strings"

	"github.com/digitech/seogen/internal/config"
	"github.com/digitech/seogen/internal/domain"
	"github.com/digitech/seogen/internal/generator"
)

// ErrorKind classifies why a generated item was rejected.
type ErrorKind string

const (
	// KindOutOfBounds marks a title or description outside its length band.
	KindOutOfBounds ErrorKind = "out_of_bounds"
	// KindParseFailure marks a missing or blank entry in the batch response.
	KindParseFailure ErrorKind = "parse_failure"
)

// ValidationError rejects a single item; the batch continues without it.
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Kind, e.Field, e.Message)
}

// Limits holds the per-field length constraints.
type Limits struct {
	TitleMinChars       int
	TitleMaxChars       int
	DescriptionMinWords int
	DescriptionMaxWords int
	SummaryMaxChars     int
}

// DefaultLimits mirrors the storefront's SERP targets: titles readable in
// a result heading, descriptions sized for a product page, summaries
// clamped to the meta-description display limit.
func DefaultLimits() Limits {
	return Limits{
		TitleMinChars:       20,
		TitleMaxChars:       120,
		DescriptionMinWords: 40,
		DescriptionMaxWords: 200,
		SummaryMaxChars:     160,
	}
}

// LimitsFromConfig builds Limits from configuration, falling back to
// defaults for unset values.
func LimitsFromConfig(cfg *config.ValidateConfig) Limits {
	lim := DefaultLimits()
	if cfg == nil {
		return lim
	}
	if cfg.TitleMinChars > 0 {
		lim.TitleMinChars = cfg.TitleMinChars
	}
	if cfg.TitleMaxChars > 0 {
		lim.TitleMaxChars = cfg.TitleMaxChars
	}
	if cfg.DescriptionMinWords > 0 {
		lim.DescriptionMinWords = cfg.DescriptionMinWords
	}
	if cfg.DescriptionMaxWords > 0 {
		lim.DescriptionMaxWords = cfg.DescriptionMaxWords
	}
	if cfg.SummaryMaxChars > 0 {
		lim.SummaryMaxChars = cfg.SummaryMaxChars
	}
	return lim
}

// Validate checks one raw generated entry against the limits and returns
// the normalized fields ready for persistence. The summary is the only
// field repaired in place (truncated); titles and descriptions outside
// their bands reject the item. Never touches the record store.
// Parameters:
//   - raw: positionally aligned entry from the generation response.
//   - lim: active length constraints.
//
// Returns:
//   - domain.GeneratedFields: normalized content when valid.
//   - error: *ValidationError describing the first rejection.
func Validate(raw generator.FieldSet, lim Limits) (domain.GeneratedFields, error) {
	title := strings.TrimSpace(raw.Title)
	description := strings.TrimSpace(raw.Description)
	summary := strings.TrimSpace(raw.MetaDescription)

	if title == "" && description == "" && summary == "" {
		return domain.GeneratedFields{}, &ValidationError{
			Kind: KindParseFailure, Field: "entry", Message: "missing from response",
		}
	}
	if title == "" {
		return domain.GeneratedFields{}, &ValidationError{
			Kind: KindParseFailure, Field: "title", Message: "is empty",
		}
	}
	if description == "" {
		return domain.GeneratedFields{}, &ValidationError{
			Kind: KindParseFailure, Field: "description", Message: "is empty",
		}
	}
	if summary == "" {
		return domain.GeneratedFields{}, &ValidationError{
			Kind: KindParseFailure, Field: "meta_description", Message: "is empty",
		}
	}

	if n := len([]rune(title)); n < lim.TitleMinChars || n > lim.TitleMaxChars {
		return domain.GeneratedFields{}, &ValidationError{
			Kind:  KindOutOfBounds,
			Field: "title",
			Message: fmt.Sprintf("length %d outside %d-%d chars",
				n, lim.TitleMinChars, lim.TitleMaxChars),
		}
	}

	if n := len(strings.Fields(description)); n < lim.DescriptionMinWords || n > lim.DescriptionMaxWords {
		return domain.GeneratedFields{}, &ValidationError{
			Kind:  KindOutOfBounds,
			Field: "description",
			Message: fmt.Sprintf("length %d outside %d-%d words",
				n, lim.DescriptionMinWords, lim.DescriptionMaxWords),
		}
	}

	return domain.GeneratedFields{
		Title:           title,
		Description:     description,
		MetaDescription: TruncateSummary(summary, lim.SummaryMaxChars),
	}, nil
}

// TruncateSummary clamps s to at most max runes, replacing the tail with an
// ellipsis marker when truncation occurs.
func TruncateSummary(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	cut := max - 3
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + "..."
}
