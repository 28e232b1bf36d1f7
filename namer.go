package xlembed

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RowInput is the data a namer sees for one data row.
type RowInput struct {
	Row   int               // 1-based sheet row
	Key   string            // identifier cell value
	Cells map[string]string // header label → cell value
}

// AssetNamer derives the expected asset filename for a row.
type AssetNamer interface {
	AssetName(in RowInput) (string, error)
}

// DefaultAssetName returns "part_<key>.jpg".
func DefaultAssetName(key string) string {
	return "part_" + key + ".jpg"
}

type partNamer struct{}

func (partNamer) AssetName(in RowInput) (string, error) {
	return DefaultAssetName(in.Key), nil
}

// exprNamer evaluates an expr-lang expression against key, row and cells.
type exprNamer struct {
	code    string
	program *vm.Program
}

// NewExprNamer compiles an asset-name expression such as
// `"shot_" + key + ".png"` or `lower(cells["Material Name"]) + ".jpg"`.
func NewExprNamer(code string) (AssetNamer, error) {
	env := namerEnv(RowInput{Cells: map[string]string{}})
	program, err := expr.Compile(code, expr.Env(env), expr.AsKind(reflect.String))
	if err != nil {
		return nil, fmt.Errorf("compile asset name expression %q: %w", code, err)
	}
	return &exprNamer{code: code, program: program}, nil
}

func (n *exprNamer) AssetName(in RowInput) (string, error) {
	out, err := expr.Run(n.program, namerEnv(in))
	if err != nil {
		return "", fmt.Errorf("evaluate asset name expression %q: %w", n.code, err)
	}
	name, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("asset name expression %q evaluated to %T, expected string", n.code, out)
	}
	return name, nil
}

func namerEnv(in RowInput) map[string]any {
	return map[string]any{
		"key":   in.Key,
		"row":   in.Row,
		"cells": in.Cells,
	}
}

func newNamer(o *Options) (AssetNamer, error) {
	if o.assetNameExpr == "" {
		return partNamer{}, nil
	}
	return NewExprNamer(o.assetNameExpr)
}
