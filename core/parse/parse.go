package parse

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Arguments decodes a tool-call argument payload, as emitted by the model,
// into a name→value map. Models occasionally produce almost-JSON (single
// quotes, unquoted keys, trailing commas); a failed strict decode is retried
// after running the payload through jsonrepair. Payloads that cannot be
// decoded at all degrade to an empty map rather than failing the turn: the
// subsequent dispatch validation reports the missing arguments back to the
// model as a normal tool result.
func Arguments(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err == nil && args != nil {
		return args
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return map[string]any{}
	}

	args = nil
	if err := json.Unmarshal([]byte(repaired), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}
