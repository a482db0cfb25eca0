// Package format holds presentation helpers shared by API responses,
// notification text and outgoing email.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agromate/agromate-api/internal/constants"

	"github.com/shopspring/decimal"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s-]{7,14}$`)
)

// Currency renders an amount as "1,300 XAF": thousands separated, no
// decimal places, currency code after the number.
func Currency(amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", groupThousands(amount.Round(0).String()), constants.Currency)
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Date renders "Jan 2, 2006".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Time renders "3:04 PM".
func Time(t time.Time) string {
	return t.Format("3:04 PM")
}

// DateTime renders "Jan 2, 2006 at 3:04 PM".
func DateTime(t time.Time) string {
	return fmt.Sprintf("%s at %s", Date(t), Time(t))
}

// Truncate shortens text to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " ") + "..."
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s looks like a dialable phone number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}
