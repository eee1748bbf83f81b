// Package parser implements the structured-response parser families
// (CodeBlocks, YAMLBlock/YAML, JSONBlock/JSON) and Function, the
// self-correcting retry loop that drives an LLM until its response
// satisfies a schema.
package parser

import "fmt"

// FieldKind is the set of primitive types CodeBlocks supports.
type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindInt
	KindFloat
)

// Field describes one schema field: its name (also its fence language for
// CodeBlocks, and its key for YAML/JSON), its primitive kind, whether it
// may be omitted, and an optional fixed set of allowed values (Literal).
type Field struct {
	Name     string
	Kind     FieldKind
	Optional bool
	Literal  []string
}

// Schema is an ordered list of fields a parser validates a response
// against.
type Schema struct {
	Fields []Field
}

// Record is a parsed, schema-validated set of field values.
type Record map[string]any

// Validator is a user-overridable check run after coercion and Literal
// validation; returning an error fails parsing with that message.
type Validator func(Record) error

// ParsingException is raised by every parser family on a malformed
// response, carrying a message written to be useful back to the LLM in a
// correction turn.
type ParsingException struct {
	Message string
}

func (e *ParsingException) Error() string { return e.Message }

func fail(format string, args ...any) error {
	return &ParsingException{Message: fmt.Sprintf(format, args...)}
}

func validateLiteral(f Field, value string) error {
	if len(f.Literal) == 0 {
		return nil
	}
	for _, allowed := range f.Literal {
		if allowed == value {
			return nil
		}
	}
	return fail("field %q must be one of %v, got %q", f.Name, f.Literal, value)
}
