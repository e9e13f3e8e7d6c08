// Package dateparse implements the core's date-string parsing contract
// (§6): ISO dates always accepted; US/EU slash dates accepted by I/O
// collaborators under an explicit format switch. Ambiguous slash dates
// resolved in "auto" mode warn exactly once per distinct literal.
package dateparse

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shiftsolver/core/pkg/logger"
	"github.com/shiftsolver/core/pkg/shifterrors"
)

// Format selects how ambiguous slash-separated dates are interpreted.
type Format string

const (
	ISO  Format = "iso"
	US   Format = "us"
	EU   Format = "eu"
	Auto Format = "auto"
)

const (
	isoLayout = "2006-01-02"
	usLayout  = "01/02/2006"
	euLayout  = "02/01/2006"
)

// Parser parses date strings under a configured Format, deduplicating
// ambiguous-date warnings per distinct literal. The zero value is not
// usable; construct with New.
type Parser struct {
	format Format
	mu     sync.Mutex
	warned map[string]struct{}
}

// New constructs a Parser for the given format.
func New(format Format) *Parser {
	return &Parser{format: format, warned: map[string]struct{}{}}
}

// ParseDate parses value according to the parser's configured format.
// field and line identify the offending value in error messages.
func (p *Parser) ParseDate(value, field string, line int) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, shifterrors.Newf(shifterrors.CodeInvalidTime, "empty %q on line %d", field, line)
	}

	switch p.format {
	case ISO:
		t, err := time.Parse(isoLayout, value)
		if err != nil {
			return time.Time{}, p.invalidErr(value, field, line, "YYYY-MM-DD")
		}
		return t, nil
	case US:
		t, err := time.Parse(usLayout, value)
		if err != nil {
			return time.Time{}, p.invalidErr(value, field, line, "MM/DD/YYYY")
		}
		return t, nil
	case EU:
		t, err := time.Parse(euLayout, value)
		if err != nil {
			return time.Time{}, p.invalidErr(value, field, line, "DD/MM/YYYY")
		}
		return t, nil
	case Auto:
		return p.parseAuto(value, field, line)
	default:
		return time.Time{}, shifterrors.Newf(shifterrors.CodeInvalidTime, "unknown date_format %q", p.format)
	}
}

func (p *Parser) parseAuto(value, field string, line int) (time.Time, error) {
	if t, err := time.Parse(isoLayout, value); err == nil {
		return t, nil
	}

	first, second, year, ok := splitSlashDate(value)
	if !ok {
		return time.Time{}, shifterrors.Newf(
			shifterrors.CodeInvalidTime,
			"invalid date %q for %q on line %d. Supported formats: YYYY-MM-DD, MM/DD/YYYY, DD/MM/YYYY",
			value, field, line,
		)
	}

	// US reading: first component is month, second is day.
	if isValidDate(year, first, second) {
		if isAmbiguous(second, first) {
			p.warnOnce(value, field, line)
		}
		return time.Date(year, time.Month(first), second, 0, 0, 0, 0, time.UTC), nil
	}

	// EU reading: first component is day, second is month.
	if isValidDate(year, second, first) {
		return time.Date(year, time.Month(second), first, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, shifterrors.Newf(
		shifterrors.CodeInvalidTime,
		"invalid date %q for %q on line %d. Supported formats: YYYY-MM-DD, MM/DD/YYYY, DD/MM/YYYY",
		value, field, line,
	)
}

// splitSlashDate parses "A/B/YYYY" into (a, b, year) without assigning
// day/month order yet.
func splitSlashDate(value string) (a, b, year int, ok bool) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	av, err1 := strconv.Atoi(parts[0])
	bv, err2 := strconv.Atoi(parts[1])
	yv, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return av, bv, yv, true
}

func isValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

// isAmbiguous reports whether a US-first reading (month=a, day=b) could
// equally be read as EU (day=a, month=b): both components are valid as
// either day or month, and they differ (same day/month, e.g. 05/05, is
// unambiguous by construction).
func isAmbiguous(day, month int) bool {
	if day == month {
		return false
	}
	return day <= 12 && month <= 12
}

func (p *Parser) warnOnce(value, field string, line int) {
	p.mu.Lock()
	_, seen := p.warned[value]
	if !seen {
		p.warned[value] = struct{}{}
	}
	p.mu.Unlock()

	if !seen {
		logger.Warn().
			Str("value", value).
			Str("field", field).
			Int("line", line).
			Msgf("Ambiguous date %q on line %d resolved as US format", value, line)
	}
}

func (p *Parser) invalidErr(value, field string, line int, wantLayout string) error {
	return shifterrors.Newf(
		shifterrors.CodeInvalidTime,
		"invalid date %q for %q on line %d. Supported format: %s",
		value, field, line, wantLayout,
	)
}
