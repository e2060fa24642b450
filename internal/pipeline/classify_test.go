package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/pkg/llm"
)

type fakeChatClient struct {
	text string
	err  error
	last llm.ChatRequest
}

func (f *fakeChatClient) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Text: f.text}, nil
}

func TestClassifier_TransportErrorPropagates(t *testing.T) {
	client := &fakeChatClient{err: errors.New("429 Too Many Requests")}
	classifier := NewClassifier(client)

	_, err := classifier.Classify(context.Background(), model.Idea{ID: "i1", Title: "T", Summary: "S"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classify: chat for idea i1")
}

func TestClassifier_ParseFailureAbsorbedToDefault(t *testing.T) {
	client := &fakeChatClient{text: "Sure! Here's my analysis of the idea..."}
	classifier := NewClassifier(client)

	got, err := classifier.Classify(context.Background(), model.Idea{ID: "i1"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultClassification(), got)
}

func TestClassifier_PromptCarriesIdeaContent(t *testing.T) {
	client := &fakeChatClient{text: `{"primary_theme":"Other","industry":"Other"}`}
	classifier := NewClassifier(client)

	_, err := classifier.Classify(context.Background(), model.Idea{
		ID:      "i1",
		Title:   "Warehouse vision",
		Summary: "Detect mispicks with cameras",
	})
	require.NoError(t, err)
	require.Len(t, client.last.Messages, 1)
	assert.Contains(t, client.last.Messages[0].Content, "Warehouse vision")
	assert.Contains(t, client.last.Messages[0].Content, "Detect mispicks with cameras")
	require.NotNil(t, client.last.Temperature)
	assert.InDelta(t, 0.3, *client.last.Temperature, 1e-9)
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Classification
	}{
		{
			name: "valid response",
			text: `{"primary_theme":"AI & Machine Learning","secondary_themes":["Cybersecurity"],"industry":"Technology","technologies":["Go","Postgres"]}`,
			want: model.Classification{
				PrimaryTheme:    "AI & Machine Learning",
				SecondaryThemes: []string{"Cybersecurity"},
				Industry:        "Technology",
				Technologies:    []string{"Go", "Postgres"},
			},
		},
		{
			name: "fenced response",
			text: "```json\n{\"primary_theme\":\"Cybersecurity\",\"industry\":\"Finance\",\"technologies\":[\"Vault\"]}\n```",
			want: model.Classification{
				PrimaryTheme:    "Cybersecurity",
				SecondaryThemes: []string{},
				Industry:        "Finance",
				Technologies:    []string{"Vault"},
			},
		},
		{
			name: "unknown primary theme downgrades to Other",
			text: `{"primary_theme":"Quantum Gardening","industry":"Technology","technologies":[]}`,
			want: model.Classification{
				PrimaryTheme:    model.ThemeOther,
				SecondaryThemes: []string{},
				Industry:        "Technology",
				Technologies:    []string{},
			},
		},
		{
			name: "unknown secondary themes dropped",
			text: `{"primary_theme":"Cybersecurity","secondary_themes":["Quantum Gardening","Smart Cities"],"industry":"Technology"}`,
			want: model.Classification{
				PrimaryTheme:    "Cybersecurity",
				SecondaryThemes: []string{"Smart Cities"},
				Industry:        "Technology",
				Technologies:    []string{},
			},
		},
		{
			name: "secondary themes capped at three",
			text: `{"primary_theme":"Cybersecurity","secondary_themes":["Smart Cities","Social Impact","Gaming & Entertainment","Healthcare & Wellness"],"industry":"Technology"}`,
			want: model.Classification{
				PrimaryTheme:    "Cybersecurity",
				SecondaryThemes: []string{"Smart Cities", "Social Impact", "Gaming & Entertainment"},
				Industry:        "Technology",
				Technologies:    []string{},
			},
		},
		{
			name: "empty industry defaults to Other",
			text: `{"primary_theme":"Cybersecurity","industry":""}`,
			want: model.Classification{
				PrimaryTheme:    "Cybersecurity",
				SecondaryThemes: []string{},
				Industry:        model.IndustryOther,
				Technologies:    []string{},
			},
		},
		{
			name: "unparseable text yields default",
			text: "not json at all",
			want: model.DefaultClassification(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseClassification(tt.text))
		})
	}
}
