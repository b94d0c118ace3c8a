package scene

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// SchemaError is a schema violation with source position when CUE has one.
type SchemaError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Path, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidateSchema checks raw scene YAML against the embedded CUE schema.
// Returns all violations found (does not fail-fast), so a scene author sees
// every problem in one pass.
//
// Schema validation is independent of Parse's structural checks: the schema
// catches shape errors (wrong types, unknown enum values), Parse catches
// semantic ones (dangling view references, duplicate names).
func ValidateSchema(data []byte) []error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []error{&SchemaError{Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		// The schema is embedded at build time; failing to compile it is a
		// packaging bug, not a user error.
		return []error{&SchemaError{Path: "schema", Message: err.Error()}}
	}

	sceneDef := schema.LookupPath(cue.ParsePath("#Scene"))
	if err := sceneDef.Err(); err != nil {
		return []error{&SchemaError{Path: "schema.#Scene", Message: err.Error()}}
	}

	value := sceneDef.Unify(ctx.Encode(doc))
	if err := value.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return splitCUEErrors(err)
	}
	return nil
}

// splitCUEErrors expands a CUE error list into individual SchemaErrors.
func splitCUEErrors(err error) []error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return []error{err}
	}

	out := make([]error, 0, len(list))
	for _, e := range list {
		se := &SchemaError{
			Path:    strings.Join(cueerrors.Path(e), "."),
			Message: e.Error(),
		}
		if positions := cueerrors.Positions(e); len(positions) > 0 {
			se.Pos = positions[0]
		}
		out = append(out, se)
	}
	return out
}
