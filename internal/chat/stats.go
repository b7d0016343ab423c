package chat

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/eugenenazirov/chat-bubbles/internal/packer"
)

// DateLayout is the layout of Message.Date.
const DateLayout = "2006-01-02T15:04:05"

const (
	DefaultTopWords      = 100
	DefaultMinWordLength = 2
)

// Count is one labelled bucket of a statistic.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Items converts counts into packer input, keeping their order.
func Items(counts []Count) []packer.Item {
	items := make([]packer.Item, len(counts))
	for i, c := range counts {
		items[i] = packer.Item{Label: c.Label, Weight: c.Count}
	}
	return items
}

// Aggregator computes statistics over exported messages.
type Aggregator struct {
	topWords      int
	minWordLength int
	locale        Locale
}

// AggregatorOption customises an Aggregator.
type AggregatorOption func(*Aggregator)

// WithTopWords limits how many words the words statistic keeps.
func WithTopWords(n int) AggregatorOption {
	return func(a *Aggregator) {
		a.topWords = n
	}
}

// WithMinWordLength sets the length a word must exceed, in runes, to be counted.
func WithMinWordLength(n int) AggregatorOption {
	return func(a *Aggregator) {
		a.minWordLength = n
	}
}

// WithLocale sets the language of weekday and month labels.
func WithLocale(l Locale) AggregatorOption {
	return func(a *Aggregator) {
		a.locale = l
	}
}

// NewAggregator builds an Aggregator, validating the supplied options.
func NewAggregator(opts ...AggregatorOption) (*Aggregator, error) {
	a := &Aggregator{
		topWords:      DefaultTopWords,
		minWordLength: DefaultMinWordLength,
		locale:        LocaleEnglish,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.topWords <= 0 {
		return nil, fmt.Errorf("%w: top words must be positive, got %d", ErrInvalidOption, a.topWords)
	}
	if a.minWordLength < 0 {
		return nil, fmt.Errorf("%w: min word length must not be negative, got %d", ErrInvalidOption, a.minWordLength)
	}
	if _, err := ParseLocale(string(a.locale)); err != nil {
		return nil, err
	}
	return a, nil
}

// Count computes the statistic selected by kind.
func (a *Aggregator) Count(kind Kind, messages []Message) ([]Count, error) {
	switch kind {
	case KindSenders:
		return a.Senders(messages), nil
	case KindWeekdays:
		return a.Weekdays(messages), nil
	case KindMonths:
		return a.Months(messages), nil
	case KindWords:
		return a.Words(messages), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// Senders counts messages per author, sorted by name.
func (a *Aggregator) Senders(messages []Message) []Count {
	bySender := make(map[string]int)
	for _, m := range messages {
		if m.From == "" {
			continue
		}
		bySender[m.From]++
	}

	out := make([]Count, 0, len(bySender))
	for name, n := range bySender {
		out = append(out, Count{Label: name, Count: n})
	}
	slices.SortFunc(out, func(x, y Count) int { return strings.Compare(x.Label, y.Label) })
	return out
}

// Weekdays counts messages per day of the week, Sunday first. Every day is present.
func (a *Aggregator) Weekdays(messages []Message) []Count {
	var buckets [7]int
	for _, m := range messages {
		if t, ok := parseDate(m.Date); ok {
			buckets[t.Weekday()]++
		}
	}

	out := make([]Count, len(buckets))
	for d, n := range buckets {
		out[d] = Count{Label: a.locale.weekday(time.Weekday(d)), Count: n}
	}
	return out
}

// Months counts messages per calendar month, January first. Every month is present.
func (a *Aggregator) Months(messages []Message) []Count {
	var buckets [12]int
	for _, m := range messages {
		if t, ok := parseDate(m.Date); ok {
			buckets[t.Month()-1]++
		}
	}

	out := make([]Count, len(buckets))
	for i, n := range buckets {
		out[i] = Count{Label: a.locale.month(time.Month(i + 1)), Count: n}
	}
	return out
}

// Words returns the most frequent words, most common first. Ties are ordered by word.
func (a *Aggregator) Words(messages []Message) []Count {
	freq := make(map[string]int)
	for _, m := range messages {
		for _, e := range m.TextEntities {
			for _, w := range splitWords(e.Text) {
				if utf8.RuneCountInString(w) > a.minWordLength {
					freq[w]++
				}
			}
		}
	}

	out := make([]Count, 0, len(freq))
	for w, n := range freq {
		out = append(out, Count{Label: w, Count: n})
	}
	slices.SortFunc(out, func(x, y Count) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return strings.Compare(x.Label, y.Label)
	})
	if len(out) > a.topWords {
		out = out[:a.topWords]
	}
	return out
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
