// Package query filters document blocks with boolean expressions.
//
// An expression sees one block at a time through these names:
//   - id: the block ID
//   - type: the wire type tag (p, h1, h2, ul, ol, code)
//   - text: the block text
//   - index: the zero-based position in the document
//   - label: the human-readable type name
//
// Examples:
//
//	type == "h1" || type == "h2"
//	text contains "TODO" && index > 2
//	lineCount(text) > 1
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled block expression. The zero value and a nil
// Filter match every block.
type Filter struct {
	source  string
	program *vm.Program
}

// Match is a block selected by a filter along with its position.
type Match struct {
	Index int
	Block document.Block
}

// Compile parses and type-checks expression. An empty or blank
// expression yields a filter that matches everything.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}

	if err := validateExpression(expression); err != nil {
		return nil, err
	}

	options := []expr.Option{
		expr.Env(Env(0, document.Block{})),
		expr.AsBool(),
		// "type" is a block field here, not the builtin
		expr.DisableBuiltin("type"),
		expr.Function("lineCount", func(params ...interface{}) (interface{}, error) {
			text, err := extractParam[string](params, 0, "text")
			if err != nil {
				return nil, err
			}
			return strings.Count(text, "\n") + 1, nil
		}, new(func(string) int)),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		if strings.Contains(err.Error(), "unknown name") || strings.Contains(err.Error(), "undefined") {
			return nil, fmt.Errorf("%w: %v", ErrUndefinedVariable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	return &Filter{source: expression, program: program}, nil
}

// String returns the expression the filter was compiled from
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match reports whether block at index satisfies the filter.
func (f *Filter) Match(ctx context.Context, index int, block document.Block) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	if f == nil || f.program == nil {
		return true, nil
	}

	result, err := vm.Run(f.program, Env(index, block))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBoolean, result)
	}
	return matched, nil
}

// Select returns the blocks of doc that satisfy the filter, in order.
func (f *Filter) Select(ctx context.Context, doc document.Document) ([]Match, error) {
	var matches []Match
	for i, b := range doc.Blocks {
		ok, err := f.Match(ctx, i, b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if ok {
			matches = append(matches, Match{Index: i, Block: b})
		}
	}
	return matches, nil
}

// Env builds the variables an expression sees for one block
func Env(index int, block document.Block) map[string]interface{} {
	return map[string]interface{}{
		"id":    block.ID.String(),
		"type":  string(block.Type),
		"text":  block.Text,
		"index": index,
		"label": block.Type.Label(),
	}
}

// validateExpression blocks names that have no business in a block filter
func validateExpression(expression string) error {
	unsafePatterns := []string{
		"os.",
		"exec.",
		"http.",
		"net.",
		"syscall.",
		"unsafe.",
		"__proto__",
		"ReadFile",
		"WriteFile",
	}

	lowerExpr := strings.ToLower(expression)
	for _, pattern := range unsafePatterns {
		if strings.Contains(lowerExpr, strings.ToLower(pattern)) {
			return ErrUnsafeOperation
		}
	}
	return nil
}

// extractParam pulls a typed parameter out of an expr function call
func extractParam[T any](params []interface{}, index int, name string) (T, error) {
	var zero T

	if index >= len(params) {
		return zero, fmt.Errorf("parameter %d (%s) not provided", index, name)
	}

	if v, ok := params[index].(T); ok {
		return v, nil
	}

	return zero, fmt.Errorf("parameter %d (%s) must be %T, got %T", index, name, zero, params[index])
}
