package sweep

import (
	"math/big"
	"time"
)

type Config struct {
	PollInterval    time.Duration
	BatchSize       int
	ChecksPerSecond int
	Workers         int
	MinBalance      *big.Int
}

func (c Config) pollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return 5 * time.Second
	}
	return c.PollInterval
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return 100
	}
	return c.BatchSize
}

func (c Config) checksPerSecond() int {
	if c.ChecksPerSecond <= 0 {
		return 10
	}
	return c.ChecksPerSecond
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

func (c Config) minBalance() *big.Int {
	if c.MinBalance == nil {
		return big.NewInt(1_000_000_000_000_000)
	}
	return c.MinBalance
}

// maxBackoff bounds the wait after consecutive failed scans.
func (c Config) maxBackoff() time.Duration {
	return 16 * c.pollInterval()
}
