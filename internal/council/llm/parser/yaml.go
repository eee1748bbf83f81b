package parser

import "gopkg.in/yaml.v3"

// YAML expects a ```yaml fenced block (or raw YAML) and supports nested
// schema objects, since it unmarshals into a generic map rather than a
// fixed set of primitive fields.
type YAML struct {
	Validator Validator
}

// NewYAML builds a YAML parser with an optional validator.
func NewYAML(validator Validator) *YAML {
	return &YAML{Validator: validator}
}

func (p *YAML) Parse(response string) (Record, error) {
	block := extractBlock(response, "yaml")
	var record Record
	if err := yaml.Unmarshal([]byte(block), &record); err != nil {
		return nil, fail("invalid yaml response: %v", err)
	}
	if record == nil {
		record = Record{}
	}
	if p.Validator != nil {
		if err := p.Validator(record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// Format renders record as a ```yaml fenced block.
func (p *YAML) Format(record Record) (string, error) {
	out, err := yaml.Marshal(map[string]any(record))
	if err != nil {
		return "", err
	}
	return "```yaml\n" + string(out) + "```\n", nil
}

// YAMLBlock is an alias of YAML and parses exactly as YAML does. The
// payload is decoded into a Record, so it must be a mapping; a response
// that is a lone scalar or list fails with a ParsingException.
type YAMLBlock = YAML

// NewYAMLBlock builds a YAMLBlock parser.
func NewYAMLBlock(validator Validator) *YAMLBlock { return NewYAML(validator) }
