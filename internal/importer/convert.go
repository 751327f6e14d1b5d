package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/backoffice/internal/model"
)

const dateFormat = "2006-01-02"

// serialEpoch is day zero of spreadsheet serial dates. Using Dec 30 rather
// than Dec 31 absorbs the phantom 1900-02-29 for every serial after it.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// textDateLayouts are accepted when a due date was exported as text.
var textDateLayouts = []string{dateFormat, "02/01/2006"}

// SerialToDate converts a spreadsheet serial day count to a calendar date.
// Fractional parts (time of day) are dropped.
func SerialToDate(serial int64) time.Time {
	return serialEpoch.AddDate(0, 0, int(serial))
}

// blankDate reports whether a due-date cell carries no value.
func blankDate(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return true
	}
	d, err := decimal.NewFromString(s)
	return err == nil && d.IsZero()
}

// ParseDueDate converts a due-date cell to "YYYY-MM-DD".
func ParseDueDate(cell string) (string, error) {
	s := strings.TrimSpace(cell)
	if d, err := decimal.NewFromString(s); err == nil {
		if !d.IsPositive() {
			return "", fmt.Errorf("serial %s out of range", s)
		}
		return SerialToDate(d.Floor().IntPart()).Format(dateFormat), nil
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateFormat), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// statusPaid is the only status cell value treated as settled.
const statusPaid = "Pago"

// ParseStatus classifies a status cell. Matching is exact and case-sensitive.
func ParseStatus(cell string) model.PayableStatus {
	if cell == statusPaid {
		return model.PayableStatusPaid
	}
	return model.PayableStatusPending
}
