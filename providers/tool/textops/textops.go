package textops

import (
	"context"
	"strconv"
	"strings"

	"github.com/leofalp/agentcli/internal/jsonschema"
	"github.com/leofalp/agentcli/providers/tool"
)

// Tool names advertised to the model.
const (
	CountWordsName  = "count_words"
	ReverseTextName = "reverse_text"
)

// NewCountWords returns the word-count tool. Words are maximal runs of
// non-whitespace, so the count is invariant to leading, trailing, and
// repeated internal whitespace; empty or whitespace-only text yields "0".
func NewCountWords() *tool.Tool {
	return &tool.Tool{
		Name:        CountWordsName,
		Description: "Count the number of words in a piece of text.",
		Parameters: jsonschema.Object(map[string]*jsonschema.Schema{
			"text": jsonschema.String("The text whose words should be counted."),
		}, "text"),
		Handler: func(ctx context.Context, args tool.Args) (string, error) {
			text, err := args.String("text")
			if err != nil {
				return "", err
			}
			return strconv.Itoa(len(strings.Fields(text))), nil
		},
	}
}

// NewReverseText returns the string-reversal tool. Reversal is performed on
// runes, not bytes, so multi-byte characters survive the round trip; the
// empty string maps to itself.
func NewReverseText() *tool.Tool {
	return &tool.Tool{
		Name:        ReverseTextName,
		Description: "Reverse the characters in a string.",
		Parameters: jsonschema.Object(map[string]*jsonschema.Schema{
			"text": jsonschema.String("The text to reverse."),
		}, "text"),
		Handler: func(ctx context.Context, args tool.Args) (string, error) {
			text, err := args.String("text")
			if err != nil {
				return "", err
			}
			return Reverse(text), nil
		},
	}
}

// Reverse returns s with its characters in reverse order.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
