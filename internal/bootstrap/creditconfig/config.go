package creditconfig

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved daemon configuration after file merge and
// environment overrides.
type Config struct {
	Server ServerConfig
	Ledger LedgerConfig
	Credit CreditConfig
}

type ServerConfig struct {
	RPCAddr        string
	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitTTL   time.Duration
}

// LedgerConfig selects the balance backend. Mode "memory" runs the in-process
// ledger; mode "remote" proxies to an external ledger node at Endpoint.
type LedgerConfig struct {
	Mode     string
	Endpoint string
	Token    string
}

type CreditConfig struct {
	CreditType    string
	AuthoritySeed string
	StatePath     string
	StateSecret   string
}

const (
	LedgerModeMemory = "memory"
	LedgerModeRemote = "remote"
)

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			RPCAddr:        "127.0.0.1:8547",
			RateLimitRPS:   10,
			RateLimitBurst: 30,
			RateLimitTTL:   10 * time.Minute,
		},
		Ledger: LedgerConfig{
			Mode: LedgerModeMemory,
		},
		Credit: CreditConfig{
			CreditType: "merit",
			StatePath:  "data/credit-config.dat",
		},
	}
}

// DaemonConfig mirrors the YAML file layout. Numeric zero values and empty
// strings mean "not set", so defaults survive a sparse file.
type DaemonConfig struct {
	Server DaemonServerConfig `yaml:"server"`
	Ledger DaemonLedgerConfig `yaml:"ledger"`
	Credit DaemonCreditConfig `yaml:"credit"`
}

type DaemonServerConfig struct {
	RPCAddr        string        `yaml:"rpcAddr"`
	RateLimitRPS   float64       `yaml:"rateLimitRps"`
	RateLimitBurst int           `yaml:"rateLimitBurst"`
	RateLimitTTL   time.Duration `yaml:"rateLimitIdleTTL"`
}

type DaemonLedgerConfig struct {
	Mode     string `yaml:"mode"`
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

type DaemonCreditConfig struct {
	CreditType    string `yaml:"creditType"`
	AuthoritySeed string `yaml:"authoritySeed"`
	StatePath     string `yaml:"statePath"`
	StateSecret   string `yaml:"stateSecret"`
}

func LoadFromPath(configPath string) Config {
	cfg := DefaultConfig()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"go-backend/configs/config.yaml",
			"configs/config.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var parsed DaemonConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}

		merged := cfg
		Merge(&merged, parsed)
		ApplyEnvOverrides(&merged)
		return merged
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src DaemonConfig) {
	if src.Server.RPCAddr != "" {
		dst.Server.RPCAddr = src.Server.RPCAddr
	}
	if src.Server.RateLimitRPS != 0 {
		dst.Server.RateLimitRPS = src.Server.RateLimitRPS
	}
	if src.Server.RateLimitBurst != 0 {
		dst.Server.RateLimitBurst = src.Server.RateLimitBurst
	}
	if src.Server.RateLimitTTL != 0 {
		dst.Server.RateLimitTTL = src.Server.RateLimitTTL
	}
	if src.Ledger.Mode != "" {
		dst.Ledger.Mode = src.Ledger.Mode
	}
	if src.Ledger.Endpoint != "" {
		dst.Ledger.Endpoint = src.Ledger.Endpoint
	}
	if src.Ledger.Token != "" {
		dst.Ledger.Token = src.Ledger.Token
	}
	if src.Credit.CreditType != "" {
		dst.Credit.CreditType = src.Credit.CreditType
	}
	if src.Credit.AuthoritySeed != "" {
		dst.Credit.AuthoritySeed = src.Credit.AuthoritySeed
	}
	if src.Credit.StatePath != "" {
		dst.Credit.StatePath = src.Credit.StatePath
	}
	if src.Credit.StateSecret != "" {
		dst.Credit.StateSecret = src.Credit.StateSecret
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if addr := strings.TrimSpace(os.Getenv("MERIT_RPC_ADDR")); addr != "" {
		cfg.Server.RPCAddr = addr
	}
	if mode := strings.TrimSpace(os.Getenv("MERIT_LEDGER_MODE")); mode != "" {
		cfg.Ledger.Mode = mode
	}
	if endpoint := strings.TrimSpace(os.Getenv("MERIT_LEDGER_ENDPOINT")); endpoint != "" {
		cfg.Ledger.Endpoint = endpoint
	}
	if token := strings.TrimSpace(os.Getenv("MERIT_LEDGER_TOKEN")); token != "" {
		cfg.Ledger.Token = token
	}
	if creditType := strings.TrimSpace(os.Getenv("MERIT_CREDIT_TYPE")); creditType != "" {
		cfg.Credit.CreditType = creditType
	}
	if seed := strings.TrimSpace(os.Getenv("MERIT_AUTHORITY_SEED")); seed != "" {
		cfg.Credit.AuthoritySeed = seed
	}
	if path := strings.TrimSpace(os.Getenv("MERIT_STATE_PATH")); path != "" {
		cfg.Credit.StatePath = path
	}
	if secret := strings.TrimSpace(os.Getenv("MERIT_STATE_SECRET")); secret != "" {
		cfg.Credit.StateSecret = secret
	}
	if raw := strings.TrimSpace(os.Getenv("MERIT_RPC_RATE_LIMIT_RPS")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			cfg.Server.RateLimitRPS = v
		}
	}
	if raw := strings.TrimSpace(os.Getenv("MERIT_RPC_RATE_LIMIT_BURST")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.Server.RateLimitBurst = v
		}
	}
}
