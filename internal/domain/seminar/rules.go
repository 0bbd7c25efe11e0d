package seminar

import (
	"regexp"
	"strings"

	"seminar-api/internal/domain"
)

// Hours 1-23 as H or HH, minutes 00-59.
var timeRe = regexp.MustCompile(`^([1-9]|0[1-9]|1[0-9]|2[0-3]):([0-5][0-9])$`)

func IsTimeFormatValid(t string) bool {
	return timeRe.MatchString(t)
}

// ParseOnline accepts "true"/"false" in any case. A nil value yields def so the
// caller decides what absence means.
func ParseOnline(raw *string, def bool) (bool, error) {
	if raw == nil {
		return def, nil
	}
	switch strings.ToLower(*raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, domain.ErrInvalidOnlineValue
	}
}

const OrderEarliest = "earliest"

type ListFilter struct {
	// NameContains is nil when no name filter was requested.
	NameContains *string
	Ascending    bool
}

// ParseListQuery resolves the name/order query parameters. Without order=earliest
// results are newest first.
func ParseListQuery(params map[string]string) ListFilter {
	var f ListFilter
	if name, ok := params["name"]; ok {
		n := name
		f.NameContains = &n
	}
	if order, ok := params["order"]; ok && order == OrderEarliest {
		f.Ascending = true
	}
	return f
}
