package tools

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/smoltalk/toolbox/pkg/llmutils"
	"github.com/smoltalk/toolbox/pkg/schema"
)

// Func exposes a plain Go function as a tool. The parameter schema is
// reflected once from the input struct at construction; jsonschema struct
// tags supply field descriptions and validate tags constrain the decoded
// payload.
type Func[I any, O any] struct {
	name        string
	description string
	parameters  any

	fn       func(ctx context.Context, req *I) (*O, error)
	validate *validator.Validate
}

// NewFunc builds a tool descriptor from a function with a structured input.
// The function itself is never invoked during construction.
func NewFunc[I any, O any](name, description string, fn func(ctx context.Context, req *I) (*O, error)) (*Func[I, O], error) {
	if name == "" {
		return nil, errors.New("tool name is required")
	}
	var input I
	sc, err := schema.New(reflect.TypeOf(input))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create schema for tool %s", name)
	}
	return &Func[I, O]{
		name:        name,
		description: description,
		parameters:  sc.Parameters,
		fn:          fn,
		validate:    validator.New(),
	}, nil
}

var _ ITool = (*Func[struct{}, struct{}])(nil)
var _ MapCaller = (*Func[struct{}, struct{}])(nil)

func (t *Func[I, O]) Name() string {
	return t.name
}

func (t *Func[I, O]) Description() string {
	return t.description
}

func (t *Func[I, O]) Parameters() any {
	return t.parameters
}

// Run executes the tool with a typed request.
func (t *Func[I, O]) Run(ctx context.Context, req *I) (*O, error) {
	return t.fn(ctx, req)
}

// Call executes the tool with a JSON argument payload, as produced by the
// model inside a tool call.
func (t *Func[I, O]) Call(ctx context.Context, input string) (string, error) {
	var req I
	if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.Mark(errors.WithMessagef(err, "tool %s", t.name), ErrInvalidArguments)
	}
	return t.call(ctx, &req)
}

// CallMap executes the tool with an already parsed argument payload.
func (t *Func[I, O]) CallMap(ctx context.Context, args map[string]any) (string, error) {
	var req I
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return "", errors.WithMessagef(err, "tool %s", t.name)
	}
	if err := dec.Decode(args); err != nil {
		return "", errors.Mark(errors.WithMessagef(err, "tool %s", t.name), ErrInvalidArguments)
	}
	return t.call(ctx, &req)
}

func (t *Func[I, O]) call(ctx context.Context, req *I) (string, error) {
	if err := t.validate.StructCtx(ctx, req); err != nil {
		return "", errors.Mark(errors.WithMessagef(err, "tool %s", t.name), ErrInvalidArguments)
	}
	out, err := t.fn(ctx, req)
	if err != nil {
		return "", err
	}
	return stringify(out)
}

func stringify(out any) (string, error) {
	if s, ok := out.(interface{ String() string }); ok {
		return s.String(), nil
	}
	bs, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal output")
	}
	return string(bs), nil
}
