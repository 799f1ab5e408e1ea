package datetime

import (
	"context"
	"time"

	"github.com/leofalp/agentcli/internal/jsonschema"
	"github.com/leofalp/agentcli/providers/tool"
)

// Name is the tool name advertised to the model.
const Name = "get_current_datetime"

// timestampLayout renders timestamps as "YYYY-MM-DD HH:MM:SS".
const timestampLayout = "2006-01-02 15:04:05"

// now is the clock source; swapped out in tests.
var now = time.Now

// New returns the clock-read tool. It takes no arguments and returns the
// current local date and time. The schema is the empty object descriptor so
// the wire catalog still advertises a closed argument set.
func New() *tool.Tool {
	return &tool.Tool{
		Name:        Name,
		Description: "Return the current local date and time.",
		Parameters:  jsonschema.Object(nil),
		Handler: func(ctx context.Context, args tool.Args) (string, error) {
			return now().Format(timestampLayout), nil
		},
	}
}
