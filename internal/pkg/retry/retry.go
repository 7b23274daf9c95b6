package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config describes the transient-failure backoff applied inside provider
// adapters. This is separate from the quality-retry loop: it only covers
// timeouts, rate limits and network hiccups on a single upstream call.
type Config struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"4s"`
}

func (c *Config) ToOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(c.Attempts),
		retry.Delay(c.Delay),
		retry.MaxDelay(c.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}
