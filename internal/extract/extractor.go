package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/value"
)

// LLMExtractor asks a Completer to restate unparseable input as JSON.
// It satisfies engine.Extractor.
type LLMExtractor struct {
	completer Completer
	logger    *slog.Logger
}

// NewLLMExtractor wraps c. A nil logger means slog.Default().
func NewLLMExtractor(c Completer, logger *slog.Logger) *LLMExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMExtractor{completer: c, logger: logger}
}

// Extract sends the type-specific prompt for raw and parses the reply.
func (x *LLMExtractor) Extract(ctx context.Context, raw string, t format.StructureType) (value.Value, error) {
	reply, err := x.completer.GetChatCompletion(ctx, BuildPrompt(raw, t))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", t, err)
	}

	v := ParseResponse(reply)
	if IsUnparsed(v) {
		x.logger.Warn("model reply held no JSON, keeping raw content", "structure_type", string(t), "reply_bytes", len(reply))
	}
	return v, nil
}
