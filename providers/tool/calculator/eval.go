package calculator

import (
	"errors"
	"fmt"
	"math"
)

// The evaluator is a whitelist interpreter: every name, operator, and node
// kind must be explicitly enumerated here or evaluation fails. The expression
// string ultimately comes from the model (which is fed by the end user), so
// there is deliberately no fallback to any general evaluation facility.

// constants is the fixed whitelist of resolvable constant names.
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"inf": math.Inf(1),
	"nan": math.NaN(),
}

// mathFunc describes one whitelisted math function: its accepted argument
// count range and the implementation applied to the evaluated arguments.
type mathFunc struct {
	minArgs int
	maxArgs int
	apply   func(args []float64) (float64, error)
}

func unaryFunc(fn func(float64) float64) mathFunc {
	return mathFunc{minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		return fn(args[0]), nil
	}}
}

func binaryFunc(fn func(float64, float64) float64) mathFunc {
	return mathFunc{minArgs: 2, maxArgs: 2, apply: func(args []float64) (float64, error) {
		return fn(args[0], args[1]), nil
	}}
}

// functions is the fixed whitelist of callable math function names.
var functions = map[string]mathFunc{
	"sqrt": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] < 0 {
			return 0, errors.New("math domain error")
		}
		return math.Sqrt(args[0]), nil
	}},
	"log": {minArgs: 1, maxArgs: 2, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, errors.New("math domain error")
		}
		if len(args) == 1 {
			return math.Log(args[0]), nil
		}
		base := args[1]
		if base <= 0 || base == 1 {
			return 0, errors.New("math domain error")
		}
		return math.Log(args[0]) / math.Log(base), nil
	}},
	"log2": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, errors.New("math domain error")
		}
		return math.Log2(args[0]), nil
	}},
	"log10": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, errors.New("math domain error")
		}
		return math.Log10(args[0]), nil
	}},
	"asin": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] < -1 || args[0] > 1 {
			return 0, errors.New("math domain error")
		}
		return math.Asin(args[0]), nil
	}},
	"acos": {minArgs: 1, maxArgs: 1, apply: func(args []float64) (float64, error) {
		if args[0] < -1 || args[0] > 1 {
			return 0, errors.New("math domain error")
		}
		return math.Acos(args[0]), nil
	}},
	"sin":     unaryFunc(math.Sin),
	"cos":     unaryFunc(math.Cos),
	"tan":     unaryFunc(math.Tan),
	"atan":    unaryFunc(math.Atan),
	"sinh":    unaryFunc(math.Sinh),
	"cosh":    unaryFunc(math.Cosh),
	"tanh":    unaryFunc(math.Tanh),
	"exp":     unaryFunc(math.Exp),
	"floor":   unaryFunc(math.Floor),
	"ceil":    unaryFunc(math.Ceil),
	"trunc":   unaryFunc(math.Trunc),
	"fabs":    unaryFunc(math.Abs),
	"degrees": unaryFunc(func(x float64) float64 { return x * 180 / math.Pi }),
	"radians": unaryFunc(func(x float64) float64 { return x * math.Pi / 180 }),
	"atan2":   binaryFunc(math.Atan2),
	"hypot":   binaryFunc(math.Hypot),
	"pow": {minArgs: 2, maxArgs: 2, apply: func(args []float64) (float64, error) {
		result := math.Pow(args[0], args[1])
		if math.IsNaN(result) && !math.IsNaN(args[0]) && !math.IsNaN(args[1]) {
			return 0, errors.New("math domain error")
		}
		return result, nil
	}},
}

// evalExpr walks the expression tree bottom-up and produces a float64.
// Every failure (unknown names, disallowed constructs, arity mismatches,
// division by zero, domain errors) is returned as an error; nothing panics.
func evalExpr(node expr) (float64, error) {
	switch n := node.(type) {
	case literalExpr:
		return n.value, nil

	case nameExpr:
		if value, ok := constants[n.name]; ok {
			return value, nil
		}
		if _, ok := functions[n.name]; ok {
			return 0, fmt.Errorf("'%s' is a function; call it with arguments", n.name)
		}
		return 0, fmt.Errorf("Unknown name: '%s'", n.name)

	case unaryExpr:
		operand, err := evalExpr(n.operand)
		if err != nil {
			return 0, err
		}
		if n.op == "-" {
			return -operand, nil
		}
		return operand, nil

	case binaryExpr:
		left, err := evalExpr(n.left)
		if err != nil {
			return 0, err
		}
		right, err := evalExpr(n.right)
		if err != nil {
			return 0, err
		}
		return applyBinary(n.op, left, right)

	case callExpr:
		return evalCall(n)

	default:
		return 0, fmt.Errorf("unsupported expression node %T", node)
	}
}

// evalCall resolves the callee against the function whitelist before any
// argument is evaluated, then validates arity and applies the function.
func evalCall(call callExpr) (float64, error) {
	callee, ok := call.callee.(nameExpr)
	if !ok {
		return 0, errors.New("expression is not callable")
	}

	fn, ok := functions[callee.name]
	if !ok {
		if _, isConstant := constants[callee.name]; isConstant {
			return 0, fmt.Errorf("'%s' is not callable", callee.name)
		}
		return 0, fmt.Errorf("Unknown name: '%s'", callee.name)
	}

	if len(call.args) < fn.minArgs || len(call.args) > fn.maxArgs {
		if fn.minArgs == fn.maxArgs {
			return 0, fmt.Errorf("%s() takes %d argument(s), got %d", callee.name, fn.minArgs, len(call.args))
		}
		return 0, fmt.Errorf("%s() takes %d to %d arguments, got %d", callee.name, fn.minArgs, fn.maxArgs, len(call.args))
	}

	args := make([]float64, 0, len(call.args))
	for _, argNode := range call.args {
		value, err := evalExpr(argNode)
		if err != nil {
			return 0, err
		}
		args = append(args, value)
	}

	return fn.apply(args)
}

// applyBinary applies one of the whitelisted binary operators. Floor division
// and modulo follow Python semantics: the result of % takes the sign of the
// divisor, and // rounds toward negative infinity.
func applyBinary(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, errors.New("division by zero")
		}
		return left / right, nil
	case "//":
		if right == 0 {
			return 0, errors.New("floor division by zero")
		}
		return math.Floor(left / right), nil
	case "%":
		if right == 0 {
			return 0, errors.New("modulo by zero")
		}
		result := math.Mod(left, right)
		if result != 0 && (result < 0) != (right < 0) {
			result += right
		}
		return result, nil
	case "**":
		result := math.Pow(left, right)
		if math.IsNaN(result) && !math.IsNaN(left) && !math.IsNaN(right) {
			return 0, errors.New("math domain error")
		}
		return result, nil
	default:
		return 0, fmt.Errorf("unsupported operator '%s'", op)
	}
}
