package config

import (
	"math/big"
	"time"
)

type SweepConfig struct {
	MonitorEnabled  bool
	PollInterval    time.Duration
	BatchSize       int
	ChecksPerSecond int
	Workers         int
	MinBalanceWei   *big.Int
}

func loadSweep() SweepConfig {
	return SweepConfig{
		MonitorEnabled:  boolenv("AUTO_SWEEP_MONITOR", false),
		PollInterval:    durationEnvMillis("POLL_INTERVAL_MS", 5*time.Second),
		BatchSize:       intEnv("SWEEP_BATCH_SIZE", 100),
		ChecksPerSecond: intEnv("SWEEP_CHECKS_PER_SECOND", 10),
		Workers:         intEnv("SWEEP_WORKERS", 4),
		MinBalanceWei:   bigEnv("MIN_BALANCE_TO_SWEEP", big.NewInt(1_000_000_000_000_000)),
	}
}
