package config

import "time"

type ChainConfig struct {
	RPCURL          string
	ChainID         uint64
	DeployerAddress string
	USDCAddress     string
	RPCTimeout      time.Duration
	RPCMaxAttempts  int
	RPCRetryDelay   time.Duration
}

func loadChain() ChainConfig {
	rpcURL := getenv("BASE_SEPOLIA_RPC", "")
	if rpcURL == "" {
		rpcURL = getenv("CHAIN_RPC_URL", "https://sepolia.base.org")
	}
	return ChainConfig{
		RPCURL:          rpcURL,
		// zero is resolved from the node at startup
		ChainID:         u64env("CHAIN_ID", 0),
		DeployerAddress: mustenv("DEPLOYER_ADDRESS"),
		USDCAddress:     getenv("USDC_ADDRESS", "0x036CbD53842c5426634e7929541eC2318f3dCF7e"),
		RPCTimeout:      durationEnvSeconds("RPC_TIMEOUT", 10*time.Second),
		RPCMaxAttempts:  intEnv("RPC_MAX_ATTEMPTS", 1),
		RPCRetryDelay:   durationEnvMillis("RPC_RETRY_DELAY", 250*time.Millisecond),
	}
}
