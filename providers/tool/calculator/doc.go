// Package calculator provides the calculator tool: a capability-safe
// arithmetic expression evaluator built as a lexer, a recursive-descent
// parser producing a small tagged expression tree, and a whitelist tree
// walk. Only enumerated operators and math-library names evaluate; every
// other construct is rejected by default, since the expression string is
// model-controlled input.
package calculator
