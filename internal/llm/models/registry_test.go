package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name string
		ids  []ModelID
		want []string
	}{
		{
			name: "keeps order",
			ids:  []ModelID{GPT41, Claude37Sonnet, LocalEcho},
			want: []string{"gpt-4.1", "claude-3.7-sonnet", "local.echo"},
		},
		{
			name: "skips unknown and duplicates",
			ids:  []ModelID{"nope", Claude35Haiku, Claude35Haiku},
			want: []string{"claude-3.5-haiku"},
		},
		{
			name: "empty",
			ids:  nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.ids...)
			if diff := cmp.Diff(tt.want, r.AgentNames); diff != "" {
				t.Errorf("AgentNames mismatch (-want +got):\n%s", diff)
			}
			require.Len(t, r.AgentModels, len(tt.want))
			for i, name := range r.AgentNames {
				assert.Equal(t, name, string(r.AgentModels[i].ID))
			}
		})
	}
}

func TestFindReturnsCopy(t *testing.T) {
	r := NewRegistry(Claude37Sonnet)

	m, ok := r.Find(string(Claude37Sonnet))
	require.True(t, ok)
	stamped := m.ForSession("session-1")

	assert.Equal(t, "session-1", stamped.SessionID)
	assert.Empty(t, m.SessionID)
	assert.Empty(t, r.AgentModels[0].SessionID)
	assert.Empty(t, SupportedModels[Claude37Sonnet].SessionID)

	_, ok = r.Find("missing")
	assert.False(t, ok)
	assert.False(t, r.Contains("missing"))
	assert.True(t, r.Contains("claude-3.7-sonnet"))
}

func TestSupportedModelsProviders(t *testing.T) {
	for id, m := range SupportedModels {
		assert.Equal(t, id, m.ID)
		assert.NotEmpty(t, m.Provider, id)
		assert.NotEmpty(t, m.APIModel, id)
	}
}
