package extract

import (
	"regexp"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

var (
	fenceRe  = regexp.MustCompile("(?s)```[A-Za-z]*\\s*\\n?(.*?)```")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ParseResponse reads a model reply as a value.
//
// A JSON object is returned as is and a JSON array is wrapped as
// {"items": [...]}. Replies wrapped in a code fence, or with prose around
// the JSON, are searched for the outermost object and then the outermost
// array. Anything else becomes {"raw_content": reply, "parsed": false}.
func ParseResponse(reply string) value.Value {
	text := strings.TrimSpace(reply)

	candidates := []string{text}
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := objectRe.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	if m := arrayRe.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	for _, c := range candidates {
		if v, ok := decodeReply(c); ok {
			return v
		}
	}
	return Unparsed(reply)
}

// Unparsed wraps a reply that held no JSON.
func Unparsed(reply string) *value.Map {
	return value.NewMap(
		value.E("raw_content", value.String(reply)),
		value.E("parsed", value.Bool(false)),
	)
}

// IsUnparsed reports whether v is the wrapper produced by Unparsed.
func IsUnparsed(v value.Value) bool {
	m, ok := v.(*value.Map)
	if !ok || m.Len() != 2 {
		return false
	}
	p, ok := m.Get("parsed")
	return ok && value.Equal(p, value.Bool(false)) && m.Has("raw_content")
}

func decodeReply(s string) (value.Value, bool) {
	if s == "" {
		return nil, false
	}
	v, err := value.Decode([]byte(s))
	if err != nil {
		return nil, false
	}
	switch val := v.(type) {
	case *value.Map:
		return val, true
	case value.List:
		return value.NewMap(value.E("items", val)), true
	default:
		return nil, false
	}
}
