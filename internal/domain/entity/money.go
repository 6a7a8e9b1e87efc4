package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout sheet date format (DD/MM/YYYY)
const DateLayout = "02/01/2006"

var currencyReplacer = strings.NewReplacer(
	"US$", "",
	"us$", "",
	"USD", "",
	"usd", "",
	"EUR", "",
	"eur", "",
	"$", "",
	"€", "",
	" ", "",
	"\u00a0", "",
)

// normalizeAmount turns "1,189.99" and "1.189,99" into "1189.99".
// With both separators present the last one is the decimal mark; a lone
// comma is decimal only when one or two digits follow it.
func normalizeAmount(raw string) string {
	s := currencyReplacer.Replace(strings.TrimSpace(raw))
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if digits := len(s) - lastComma - 1; strings.Count(s, ",") == 1 && digits >= 1 && digits <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// ParseMoney parses a sheet price cell in US or European notation
func ParseMoney(raw string) (decimal.Decimal, error) {
	cleaned := normalizeAmount(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return v, nil
}

// ParseUserPrice parses a price typed in chat; negatives are rejected
func ParseUserPrice(raw string) (decimal.Decimal, error) {
	v, err := ParseMoney(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative", ErrInvalidPrice)
	}
	return v, nil
}

// FormatMoney two decimals, no currency sign
func FormatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// ParseDate parses DD/MM/YYYY in loc
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
}

// FormatDate DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysUntil calendar-day difference between date and now, in now's location
func DaysUntil(date, now time.Time) int {
	loc := now.Location()
	y1, m1, d1 := date.In(loc).Date()
	y2, m2, d2 := now.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}
