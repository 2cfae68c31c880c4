package schema

import (
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// StructuralError is one schema-conformance violation, located by the
// slash-joined path of the offending value from the document root.
type StructuralError struct {
	Path    string
	Message string
}

// Checker wraps a compiled JSON Schema (2020-12 dialect, format assertions
// enabled) and reports structural errors for candidate documents.
type Checker struct {
	schema *jsonschema.Schema
}

// LoadChecker compiles the schema document at path. A missing, unparsable,
// or invalid schema is a configuration error: callers must abort the run.
func LoadChecker(path string) (*Checker, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	sch, err := c.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}
	return &Checker{schema: sch}, nil
}

// Check validates a raw decoded document and returns every structural error,
// sorted by path. An empty result means the document conforms. Callers may
// truncate for display but must use the full list for pass/fail.
func (c *Checker) Check(doc any) []StructuralError {
	err := c.schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []StructuralError{{Path: "/", Message: err.Error()}}
	}
	var out []StructuralError
	flatten(ve, &out)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Message < out[j].Message
	})
	return out
}

// flatten collects the leaves of the validation error tree; intermediate
// nodes only restate which subschema failed.
func flatten(ve *jsonschema.ValidationError, out *[]StructuralError) {
	if len(ve.Causes) == 0 {
		path := ve.InstanceLocation
		if path == "" {
			path = "/"
		}
		*out = append(*out, StructuralError{Path: path, Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		flatten(cause, out)
	}
}
