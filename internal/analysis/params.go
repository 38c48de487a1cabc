package analysis

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"
)

//go:embed parameters.cue
var defaultParametersCUE string

// Parameter is one entry of the parameter table.
type Parameter struct {
	Name   string `json:"name"`
	Column int    `json:"column"`
	Range  Range  `json:"range"`
	Symbol string `json:"symbol"`
}

// ParameterTable maps parameter names to their column, physical range and
// display symbol. Adding a parameter is a change to CUE data, not code.
type ParameterTable struct {
	params map[string]Parameter
}

// rawParameter mirrors the #Parameter CUE definition.
type rawParameter struct {
	Column int     `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Symbol string  `json:"symbol"`
}

// DefaultParameters returns the built-in table (Om, Sig).
// It panics if the embedded definition is invalid.
func DefaultParameters() *ParameterTable {
	t, err := LoadParameters()
	if err != nil {
		panic(fmt.Sprintf("embedded parameters.cue: %v", err))
	}
	return t
}

// LoadParameterFile loads the built-in table unified with the CUE file at path.
func LoadParameterFile(path string) (*ParameterTable, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("read parameter file", path, err)
	}
	return LoadParameters(src)
}

// LoadParameters compiles the built-in parameter definitions and unifies
// them with each extra CUE source. Extra sources may add parameters but
// cannot contradict the built-in ones.
func LoadParameters(extra ...[]byte) (*ParameterTable, error) {
	ctx := cuecontext.New()

	v := ctx.CompileString(defaultParametersCUE, cue.Filename("parameters.cue"))
	for i, src := range extra {
		u := ctx.CompileBytes(src, cue.Filename(fmt.Sprintf("extra-%d.cue", i)))
		if err := u.Err(); err != nil {
			return nil, parameterCUEError(err)
		}
		v = v.Unify(u)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, parameterCUEError(err)
	}

	paramsVal := v.LookupPath(cue.ParsePath("parameter"))
	if !paramsVal.Exists() {
		return nil, &Error{Code: ErrCodeInvalidParameter, Message: "no parameter table defined"}
	}

	iter, err := paramsVal.Fields()
	if err != nil {
		return nil, parameterCUEError(err)
	}

	table := &ParameterTable{params: make(map[string]Parameter)}
	columns := make(map[int]string)
	for iter.Next() {
		name := iter.Label()

		var raw rawParameter
		if err := iter.Value().Decode(&raw); err != nil {
			return nil, parameterCUEError(err)
		}

		p := Parameter{
			Name:   name,
			Column: raw.Column,
			Range:  Range{Min: raw.Min, Max: raw.Max},
			Symbol: norm.NFC.String(raw.Symbol),
		}
		if err := p.Range.Validate(); err != nil {
			return nil, err
		}
		if other, dup := columns[p.Column]; dup {
			return nil, &Error{
				Code:    ErrCodeInvalidParameter,
				Message: fmt.Sprintf("parameters %q and %q share column %d", other, name, p.Column),
			}
		}
		columns[p.Column] = name
		table.params[name] = p
	}

	return table, nil
}

// parameterCUEError converts a CUE error into an INVALID_PARAMETER Error,
// keeping the position of the first underlying error.
func parameterCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: ErrCodeInvalidParameter, Message: "invalid parameter table", Err: err}
	}

	first := errs[0]
	e := &Error{Code: ErrCodeInvalidParameter, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		e.Details = map[string]string{"pos": positions[0].String()}
	}
	return e
}

// Lookup returns the parameter with the given name.
// Names outside the table fail with INVALID_PARAMETER.
func (t *ParameterTable) Lookup(name string) (Parameter, error) {
	p, ok := t.params[name]
	if !ok {
		return Parameter{}, NewInvalidParameterError(name, t.Names())
	}
	return p, nil
}

// Names returns the parameter names ordered by column.
func (t *ParameterTable) Names() []string {
	names := make([]string, 0, len(t.params))
	for name := range t.params {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return t.params[names[i]].Column < t.params[names[j]].Column
	})
	return names
}

// Parameters returns all parameters ordered by column.
func (t *ParameterTable) Parameters() []Parameter {
	names := t.Names()
	out := make([]Parameter, len(names))
	for i, name := range names {
		out[i] = t.params[name]
	}
	return out
}
