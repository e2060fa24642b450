package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	calls int
	resp  *ChatResponse
	err   error
}

func (s *stubClient) Chat(_ context.Context, _ ChatRequest) (*ChatResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "litellm", Model: "x", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestNewAnthropicRequiresKey(t *testing.T) {
	_, err := New(Config{Provider: "anthropic", Model: "claude-sonnet-4-5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestNewAnthropic(t *testing.T) {
	client, err := New(Config{Provider: "anthropic", Model: "claude-sonnet-4-5", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewAnthropicThrottled(t *testing.T) {
	client, err := New(Config{
		Provider:          "anthropic",
		Model:             "claude-sonnet-4-5",
		APIKey:            "k",
		RequestsPerMinute: 60,
	})
	require.NoError(t, err)
	_, ok := client.(*throttledClient)
	assert.True(t, ok)
}

func TestThrottledDelegates(t *testing.T) {
	stub := &stubClient{resp: &ChatResponse{Text: "hello"}}
	client := Throttled(stub, 600)

	resp, err := client.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, 1, stub.calls)
}

func TestThrottledHonorsContextCancel(t *testing.T) {
	stub := &stubClient{resp: &ChatResponse{}}
	// One request per minute with an empty bucket after the first call, so
	// the second call must block and observe the canceled context.
	client := Throttled(stub, 1)

	_, err := client.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Chat(ctx, ChatRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestSettingInt(t *testing.T) {
	settings := map[string]string{"max_tokens": "4096", "bad": "x"}
	assert.Equal(t, 4096, SettingInt(settings, "max_tokens", 100))
	assert.Equal(t, 100, SettingInt(settings, "missing", 100))
	assert.Equal(t, 100, SettingInt(settings, "bad", 100))
}
