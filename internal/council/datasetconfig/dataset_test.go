package datasetconfig

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *LLMDataset {
	return &LLMDataset{
		Kind: "LLMDataset",
		Spec: LLMDatasetSpec{
			SystemPrompt: "be concise",
			Conversations: []Conversation{
				{Messages: []Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}},
				{Messages: []Message{{Role: "user", Content: "bye"}, {Role: "assistant", Content: "goodbye"}}},
			},
		},
	}
}

func TestValidateFineTuning_RejectsOddLength(t *testing.T) {
	err := ValidateFineTuning([]Conversation{{Messages: []Message{{Role: "user", Content: "hi"}}}})
	require.Error(t, err)
}

func TestValidateFineTuning_RejectsWrongAlternation(t *testing.T) {
	err := ValidateFineTuning([]Conversation{{Messages: []Message{
		{Role: "user", Content: "hi"},
		{Role: "user", Content: "again"},
	}}})
	require.Error(t, err)
}

func TestValidateBatch_RejectsNonUserEnding(t *testing.T) {
	err := ValidateBatch([]Conversation{{Messages: []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}}})
	require.Error(t, err)
}

func TestExportFineTuningJSONL_PrependsSystemPrompt(t *testing.T) {
	ds := sampleDataset()
	var buf bytes.Buffer
	require.NoError(t, ExportFineTuningJSONL(&buf, ds))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var record fineTuningRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	require.Len(t, record.Messages, 3)
	assert.Equal(t, "system", record.Messages[0].Role)
	assert.Equal(t, "be concise", record.Messages[0].Content)
}

func TestExportBatchJSONL_RejectsConversationNotEndingInUser(t *testing.T) {
	ds := sampleDataset()
	var buf bytes.Buffer
	err := ExportBatchJSONL(&buf, ds, "https://api.example.com/v1/chat", "gpt-4o")
	require.Error(t, err)
}

func TestExportBatchJSONL_ProducesDeterministicCustomIDs(t *testing.T) {
	ds := &LLMDataset{
		Kind: "LLMDataset",
		Spec: LLMDatasetSpec{
			Conversations: []Conversation{
				{Messages: []Message{{Role: "user", Content: "hi"}}},
			},
		},
	}
	ds.Metadata.Name = "greetings"

	var first, second bytes.Buffer
	require.NoError(t, ExportBatchJSONL(&first, ds, "https://api.example.com/v1/chat", "gpt-4o"))
	require.NoError(t, ExportBatchJSONL(&second, ds, "https://api.example.com/v1/chat", "gpt-4o"))
	assert.Equal(t, first.String(), second.String())

	var record batchRecord
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(first.Bytes()), &record))
	assert.Equal(t, "POST", record.Method)
	assert.Equal(t, "gpt-4o", record.Body.Model)
}

func TestSplit_IsDeterministicForSameSeed(t *testing.T) {
	conversations := make([]Conversation, 10)
	for i := range conversations {
		conversations[i] = Conversation{Messages: []Message{{Role: "user", Content: "x"}}}
	}

	train1, val1 := Split(conversations, 42, 0.2)
	train2, val2 := Split(conversations, 42, 0.2)
	assert.Equal(t, len(train1), len(train2))
	assert.Equal(t, len(val1), len(val2))
	assert.Equal(t, 2, len(val1))
	assert.Equal(t, 8, len(train1))
}
