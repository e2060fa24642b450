package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// throttledClient gates every Chat call through a shared token bucket so
// concurrent workers collectively stay under the provider request budget.
type throttledClient struct {
	inner   Client
	limiter *rate.Limiter
}

// Throttled wraps client with a requests-per-minute rate limit.
func Throttled(client Client, requestsPerMinute int) Client {
	return &throttledClient{
		inner:   inner(client),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func inner(c Client) Client {
	if tc, ok := c.(*throttledClient); ok {
		return tc.inner
	}
	return c
}

func (c *throttledClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "llm: rate limiter wait")
	}
	return c.inner.Chat(ctx, req)
}
