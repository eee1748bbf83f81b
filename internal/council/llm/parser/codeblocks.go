package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CodeBlocks expects one fenced block per field, with the block's
// language set to the field's name, e.g.:
//
//	```name
//	value
//	```
//
// Only primitive field kinds are supported; nested objects are not.
type CodeBlocks struct {
	Schema    Schema
	Validator Validator
}

// NewCodeBlocks builds a CodeBlocks parser for schema.
func NewCodeBlocks(schema Schema, validator Validator) *CodeBlocks {
	return &CodeBlocks{Schema: schema, Validator: validator}
}

var fencePattern = regexp.MustCompile("(?s)```([A-Za-z0-9_]+)\\s*\\n(.*?)```")

// Prompt generates a deterministic instruction block describing the
// expected fenced-code-block format, one field per fence.
func (p *CodeBlocks) Prompt() string {
	var b strings.Builder
	b.WriteString("Respond with exactly one fenced code block per field, using the field name as the block's language tag:\n\n")
	for _, f := range p.Schema.Fields {
		b.WriteString(fmt.Sprintf("```%s\n<%s value>\n```\n\n", f.Name, kindName(f.Kind)))
	}
	return b.String()
}

// Parse extracts and coerces each field's fenced block from response.
func (p *CodeBlocks) Parse(response string) (Record, error) {
	blocks := map[string]string{}
	for _, m := range fencePattern.FindAllStringSubmatch(response, -1) {
		blocks[m[1]] = strings.TrimSpace(m[2])
	}

	record := Record{}
	for _, f := range p.Schema.Fields {
		raw, ok := blocks[f.Name]
		if !ok {
			if f.Optional {
				continue
			}
			return nil, fail("missing required field %q: expected a ```%s fenced block", f.Name, f.Name)
		}
		if err := validateLiteral(f, raw); err != nil {
			return nil, err
		}
		value, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		record[f.Name] = value
	}

	if p.Validator != nil {
		if err := p.Validator(record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// Format renders record back into the fenced-block wire format Parse
// expects, the inverse operation used by round-trip tests.
func (p *CodeBlocks) Format(record Record) (string, error) {
	var b strings.Builder
	for _, f := range p.Schema.Fields {
		value, ok := record[f.Name]
		if !ok {
			if f.Optional {
				continue
			}
			return "", fail("record missing required field %q", f.Name)
		}
		b.WriteString(fmt.Sprintf("```%s\n%v\n```\n", f.Name, value))
	}
	return b.String(), nil
}

func kindName(k FieldKind) string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

func coerce(f Field, raw string) (any, error) {
	switch f.Kind {
	case KindBool:
		v, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, fail("field %q expected a bool, got %q", f.Name, raw)
		}
		return v, nil
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fail("field %q expected an int, got %q", f.Name, raw)
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fail("field %q expected a float, got %q", f.Name, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}
