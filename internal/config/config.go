package config

type Config struct {
	Server   ServerConfig
	Chain    ChainConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Sweep    SweepConfig
	Log      LogConfig
}

func Load() Config {
	ensureEnvLoaded()
	return Config{
		Server:   loadServer(),
		Chain:    loadChain(),
		Database: loadDatabase(),
		Cache:    loadCache(),
		Sweep:    loadSweep(),
		Log:      loadLog(),
	}
}
