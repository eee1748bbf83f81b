package parser

import "encoding/json"

// JSON expects a ```json fenced block (or raw JSON) and, like YAML,
// supports nested schema objects via a generic map target.
type JSON struct {
	Validator Validator
}

// NewJSON builds a JSON parser with an optional validator.
func NewJSON(validator Validator) *JSON {
	return &JSON{Validator: validator}
}

func (p *JSON) Parse(response string) (Record, error) {
	block := extractBlock(response, "json")
	var record Record
	if err := json.Unmarshal([]byte(block), &record); err != nil {
		return nil, fail("invalid json response: %v", err)
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

// Format renders record as a ```json fenced block.
func (p *JSON) Format(record Record) (string, error) {
	out, err := json.MarshalIndent(map[string]any(record), "", "  ")
	if err != nil {
		return "", err
	}
	return "```json\n" + string(out) + "\n```\n", nil
}

// JSONBlock mirrors YAMLBlock: an alias of JSON that parses exactly as
// JSON does. The payload must be a JSON object; a lone scalar or array
// fails with a ParsingException.
type JSONBlock = JSON

// NewJSONBlock builds a JSONBlock parser.
func NewJSONBlock(validator Validator) *JSONBlock { return NewJSON(validator) }
