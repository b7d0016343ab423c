package chat

import (
	"fmt"
	"strings"
)

// Kind selects which statistic is computed from an export.
type Kind int

const (
	KindSenders Kind = iota + 1
	KindWeekdays
	KindMonths
	KindWords
)

// Kinds lists every statistic in display order.
var Kinds = []Kind{KindSenders, KindWeekdays, KindMonths, KindWords}

func (k Kind) String() string {
	switch k {
	case KindSenders:
		return "senders"
	case KindWeekdays:
		return "weekdays"
	case KindMonths:
		return "months"
	case KindWords:
		return "words"
	default:
		return "unknown"
	}
}

// Title is the human readable name used for chart headings.
func (k Kind) Title() string {
	switch k {
	case KindSenders:
		return "Senders"
	case KindWeekdays:
		return "Week days"
	case KindMonths:
		return "Months"
	case KindWords:
		return "Words"
	default:
		return "Unknown"
	}
}

// ParseKind resolves a statistic name case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
