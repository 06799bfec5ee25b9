package validate

import (
	"regexp"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

const maxQty = 9999

var (
	reQ        = regexp.MustCompile(`^[\p{L}0-9 _'\-]{1,50}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reCategory = regexp.MustCompile(`^[\p{L}0-9 &_'\-]{1,40}$`)
)

// ID validates a product identifier as it arrives from forms or paths.
func ID(s string) (domain.ProductID, bool) {
	s = strings.TrimSpace(s)
	return domain.ProductID(s), s != "" && reID.MatchString(s)
}

// Qty parses a cart quantity for add-to-cart. Garbage or values below one mean one.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxQty {
		return maxQty
	}
	return n
}

// SetQty parses an explicit quantity edit. Unlike Qty it rejects instead of defaulting.
func SetQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > maxQty {
		return 0, false
	}
	return n, true
}

// Q validates a catalog search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCategory.MatchString(s)
}

// AdminCode applies a length window before any hash comparison happens.
func AdminCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || len(s) > 72 {
		return "", false
	}
	return s, true
}
