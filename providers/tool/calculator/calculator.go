package calculator

import (
	"context"
	"math"
	"strconv"

	"github.com/leofalp/agentcli/internal/jsonschema"
	"github.com/leofalp/agentcli/providers/tool"
)

// Name is the tool name advertised to the model.
const Name = "calculator"

// New returns the calculator tool: a single required string argument holding
// the expression, evaluated by [Evaluate].
func New() *tool.Tool {
	return &tool.Tool{
		Name: Name,
		Description: "Evaluate a mathematical expression. " +
			"Supports +, -, *, /, **, %, // and standard math functions " +
			"such as sqrt(), sin(), cos(), log(), etc.",
		Parameters: jsonschema.Object(map[string]*jsonschema.Schema{
			"expression": jsonschema.String("The mathematical expression to evaluate, e.g. '2 + 3 * 4' or 'sqrt(144)'."),
		}, "expression"),
		Handler: func(ctx context.Context, args tool.Args) (string, error) {
			expression, err := args.String("expression")
			if err != nil {
				return "", err
			}
			return Evaluate(expression), nil
		},
	}
}

// Evaluate parses and evaluates a restricted arithmetic expression and
// renders the result as a string. It never returns an error and never
// panics: every failure (disallowed syntax, unknown names, arity mismatches,
// division by zero, domain errors) is rendered as a string beginning with
// "Error: " so the model can read the failure and adapt.
func Evaluate(expression string) string {
	node, err := parseExpression(expression)
	if err != nil {
		return "Error: " + err.Error()
	}

	result, err := evalExpr(node)
	if err != nil {
		return "Error: " + err.Error()
	}

	return formatResult(result)
}

// formatResult renders finite whole numbers without a decimal point at any
// magnitude, and everything else in Go's shortest round-trip float form.
func formatResult(value float64) string {
	if !math.IsInf(value, 0) && !math.IsNaN(value) && value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}
