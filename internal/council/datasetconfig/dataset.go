// Package datasetconfig loads an LLMDataset YAML record and exports it
// to the two JSONL shapes LLM training pipelines consume: fine-tuning
// records and batch-API requests.
package datasetconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chain-ml/council-sub000/internal/council/promptconfig"
)

// Message is one turn in a dataset conversation.
type Message struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

// Conversation is one training example: a message list plus optional
// free-form labels (e.g. for later filtering by task/difficulty).
type Conversation struct {
	Messages []Message         `yaml:"messages"`
	Labels   map[string]string `yaml:"labels,omitempty"`
}

// LLMDatasetSpec is the "spec" body of an LLMDataset record.
type LLMDatasetSpec struct {
	SystemPrompt  string         `yaml:"system_prompt,omitempty"`
	Conversations []Conversation `yaml:"conversations"`
}

// LLMDataset is the top-level declarative record: metadata plus a spec
// body holding an optional system prompt and the training conversations.
type LLMDataset struct {
	Kind     string                `yaml:"kind"`
	Metadata promptconfig.Metadata `yaml:"metadata"`
	Spec     LLMDatasetSpec        `yaml:"spec"`
}

// Load reads an LLMDataset record from filename.
func Load(filename string) (*LLMDataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("datasetconfig: reading %s: %w", filename, err)
	}
	var ds LLMDataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("datasetconfig: unmarshaling %s: %w", filename, err)
	}
	if ds.Kind != "" && ds.Kind != "LLMDataset" {
		return nil, fmt.Errorf("datasetconfig: %s has kind %q, want LLMDataset", filename, ds.Kind)
	}
	return &ds, nil
}

// ValidateFineTuning requires every conversation to have an even number
// of messages alternating user/assistant, starting with user.
func ValidateFineTuning(conversations []Conversation) error {
	for i, c := range conversations {
		if len(c.Messages)%2 != 0 {
			return fmt.Errorf("datasetconfig: conversation %d has odd length %d, want alternating user/assistant pairs", i, len(c.Messages))
		}
		for j, m := range c.Messages {
			want := "user"
			if j%2 == 1 {
				want = "assistant"
			}
			if m.Role != want {
				return fmt.Errorf("datasetconfig: conversation %d message %d has role %q, want %q", i, j, m.Role, want)
			}
		}
	}
	return nil
}

// ValidateBatch requires every conversation to end with a user message.
func ValidateBatch(conversations []Conversation) error {
	for i, c := range conversations {
		if len(c.Messages) == 0 {
			return fmt.Errorf("datasetconfig: conversation %d is empty", i)
		}
		if last := c.Messages[len(c.Messages)-1]; last.Role != "user" {
			return fmt.Errorf("datasetconfig: conversation %d ends with role %q, want \"user\"", i, last.Role)
		}
	}
	return nil
}

type fineTuningRecord struct {
	Messages []Message `json:"messages"`
}

func (ds *LLMDataset) withSystemPrompt(c Conversation) []Message {
	if ds.Spec.SystemPrompt == "" {
		return c.Messages
	}
	out := make([]Message, 0, len(c.Messages)+1)
	out = append(out, Message{Role: "system", Content: ds.Spec.SystemPrompt})
	out = append(out, c.Messages...)
	return out
}

// ExportFineTuningJSONL writes one {"messages": [...]} object per line,
// prepending the dataset's system prompt to each conversation if set.
func ExportFineTuningJSONL(w io.Writer, ds *LLMDataset) error {
	if err := ValidateFineTuning(ds.Spec.Conversations); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, c := range ds.Spec.Conversations {
		if err := enc.Encode(fineTuningRecord{Messages: ds.withSystemPrompt(c)}); err != nil {
			return err
		}
	}
	return nil
}

// Split partitions conversations into train/val sets deterministically
// given seed: the same seed and valFraction always produce the same
// partition.
func Split(conversations []Conversation, seed int64, valFraction float64) (train, val []Conversation) {
	indices := make([]int, len(conversations))
	for i := range indices {
		indices[i] = i
	}
	rand.New(rand.NewSource(seed)).Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	valCount := int(float64(len(conversations)) * valFraction)
	valSet := make(map[int]bool, valCount)
	for _, idx := range indices[:valCount] {
		valSet[idx] = true
	}

	for i, c := range conversations {
		if valSet[i] {
			val = append(val, c)
		} else {
			train = append(train, c)
		}
	}
	return train, val
}

type batchBody struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type batchRecord struct {
	CustomID string    `json:"custom_id"`
	Method   string    `json:"method"`
	URL      string    `json:"url"`
	Body     batchBody `json:"body"`
}

// ExportBatchJSONL writes one batch-API record per conversation, each
// addressed to url with the given model, and a deterministic custom_id
// derived from the dataset name and conversation index so repeated
// exports of the same dataset produce stable IDs.
func ExportBatchJSONL(w io.Writer, ds *LLMDataset, url, model string) error {
	if err := ValidateBatch(ds.Spec.Conversations); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for i, c := range ds.Spec.Conversations {
		customID := uuid.NewMD5(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s-%d", ds.Metadata.Name, i))).String()
		record := batchRecord{
			CustomID: customID,
			Method:   "POST",
			URL:      url,
			Body:     batchBody{Model: model, Messages: ds.withSystemPrompt(c)},
		}
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
