package format

import (
	"errors"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

func parseJSON(raw string) (value.Value, error) {
	text := dedent(raw)
	v, err := value.Decode([]byte(text))
	if err != nil {
		var se *value.SyntaxError
		if errors.As(err, &se) {
			line, col := lineColumn(text, se.Offset)
			return nil, malformed(JSON, line, col, se.Message, err)
		}
		return nil, malformed(JSON, 0, 0, err.Error(), err)
	}
	return v, nil
}

func renderJSON(records []value.Value) (string, error) {
	if len(records) == 0 {
		return "[]", nil
	}
	out, err := value.MarshalIndent(value.List(records), "", "  ")
	if err != nil {
		return "", &RenderInternalError{Format: JSON, Err: err}
	}
	return strings.TrimRight(string(out), "\n"), nil
}
