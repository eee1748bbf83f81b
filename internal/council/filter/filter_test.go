package filter

import (
	"testing"

	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic_ThresholdAndTopK(t *testing.T) {
	scored := []messages.ScoredChatMessage{
		{Message: messages.NewAgentMessage("a", nil), Score: 0.9},
		{Message: messages.NewAgentMessage("b", nil), Score: 0.2},
		{Message: messages.NewAgentMessage("c", nil), Score: 0.95},
	}

	f := NewBasic(0.5, 1)
	kept, err := f.Execute(nil, scored)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "c", kept[0].Message.Content())
}

func TestBasic_NoThresholdKeepsAllSortedDescending(t *testing.T) {
	scored := []messages.ScoredChatMessage{
		{Message: messages.NewAgentMessage("low", nil), Score: 0.1},
		{Message: messages.NewAgentMessage("high", nil), Score: 0.9},
	}
	f := NewBasic(0, 0)
	kept, err := f.Execute(nil, scored)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "high", kept[0].Message.Content())
}
