package sorter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/structsort/internal/value"
)

// Strategy extracts a sort key from a record. field may be empty, in which
// case the strategy picks its own field. A missing field yields the
// strategy's zero key.
type Strategy interface {
	Name() string
	Extract(rec value.Value, field string) Key
}

// Raw keys on the field value as-is: strings are Lexical, numbers and
// booleans Numeric, containers Lexical over their compact JSON.
type Raw struct{}

func (Raw) Name() string { return "raw" }

func (Raw) Extract(rec value.Value, field string) Key {
	v, ok := fieldValue(rec, field, nil)
	if !ok {
		return LexicalKey("")
	}
	switch v := v.(type) {
	case value.Number:
		return NumericKey(v.Float64())
	case value.Bool:
		if v {
			return NumericKey(1)
		}
		return NumericKey(0)
	default:
		return LexicalKey(value.Text(v))
	}
}

// Alphabetical keys on NFC-normalized text in codepoint order. There is no
// locale-aware collation.
type Alphabetical struct{}

func (Alphabetical) Name() string { return "alphabetical" }

func (Alphabetical) Extract(rec value.Value, field string) Key {
	v, ok := fieldValue(rec, field, nil)
	if !ok {
		return LexicalKey("")
	}
	return LexicalKey(norm.NFC.String(value.Text(v)))
}

var decimalRunRe = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)

// Numerical keys on numbers. Non-number values are scraped for their first
// decimal run, so "85分" keys as 85 and "-3" as 3; text without digits keys
// as 0. The scrape is deliberately loose.
type Numerical struct{}

func (Numerical) Name() string { return "numerical" }

func (Numerical) Extract(rec value.Value, field string) Key {
	v, ok := fieldValue(rec, field, nil)
	if !ok {
		return NumericKey(0)
	}
	if n, ok := v.(value.Number); ok {
		return NumericKey(n.Float64())
	}
	return NumericKey(ScrapeNumber(value.Text(v)))
}

// ScrapeNumber returns the first decimal run in s, or 0.
func ScrapeNumber(s string) float64 {
	m := decimalRunRe.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

var (
	// The year must not continue a longer digit run and the day must not
	// be followed by another digit. The last group is the text after the date.
	isoDateRe = regexp.MustCompile(`(?s)(?:^|\D)(\d{4})[-/](\d{1,2})[-/](\d{1,2})((?:\D.*)?)$`)
	cjkDateRe = regexp.MustCompile(`(?s)(?:^|\D)(\d{4})年(\d{1,2})月(\d{1,2})日(.*)$`)
)

// Chronological keys on dates normalized to zero-padded YYYY-MM-DD, with any
// trailing text (such as a time of day) kept after the date. Values without
// a recognizable date key on their raw text and are not guaranteed to sort
// chronologically.
type Chronological struct{}

func (Chronological) Name() string { return "chronological" }

var chronologicalFields = []string{"date", "time", "timestamp", "created_at", "deadline"}

func (Chronological) Extract(rec value.Value, field string) Key {
	v, ok := fieldValue(rec, field, chronologicalFields)
	if !ok {
		return LexicalKey("")
	}
	return LexicalKey(NormalizeDate(value.Text(v)))
}

// NormalizeDate rewrites the first recognized date in s as YYYY-MM-DD and
// drops any text before it. Unrecognized input is returned unchanged.
func NormalizeDate(s string) string {
	for _, re := range []*regexp.Regexp{isoDateRe, cjkDateRe} {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		y, m, d := s[loc[2]:loc[3]], s[loc[4]:loc[5]], s[loc[6]:loc[7]]
		mi, _ := strconv.Atoi(m)
		di, _ := strconv.Atoi(d)
		return fmt.Sprintf("%s-%02d-%02d", y, mi, di) + s[loc[8]:loc[9]]
	}
	return s
}

// Priority keys on categorical priority: high=3, medium=2, low=1 (also
// 高/中/低), anything else 0.
type Priority struct{}

func (Priority) Name() string { return "priority" }

var priorityFields = []string{"priority"}

var priorityLevels = map[string]int32{
	"high":   3,
	"medium": 2,
	"low":    1,
	"高":      3,
	"中":      2,
	"低":      1,
}

func (Priority) Extract(rec value.Value, field string) Key {
	v, ok := fieldValue(rec, field, priorityFields)
	if !ok {
		return OrdinalKey(0)
	}
	return OrdinalKey(PriorityLevel(value.Text(v)))
}

// PriorityLevel maps a priority label to its ordinal. Matching ignores case
// and surrounding space.
func PriorityLevel(s string) int32 {
	return priorityLevels[strings.ToLower(strings.TrimSpace(s))]
}
