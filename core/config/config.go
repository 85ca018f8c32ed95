package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/sebdeveloper6952/minledger/core/blockchain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Blockchain struct {
		MinerAddress      string  `yaml:"miner_address"`
		Difficulty        uint32  `yaml:"difficulty"`
		Reward            float64 `yaml:"reward"`
		MaxAttempts       uint64  `yaml:"max_attempts"`
		HexEncoding       string  `yaml:"hex_encoding"`
		ValidateAddresses bool    `yaml:"validate_addresses"`
	} `yaml:"blockchain"`

	RPC struct {
		Address string `yaml:"address"`
	} `yaml:"rpc"`
}

func Default() *Config {
	var cfg Config
	cfg.Blockchain.Difficulty = 2
	cfg.Blockchain.Reward = 100.0
	cfg.Blockchain.HexEncoding = "padded"
	cfg.RPC.Address = "localhost:8080"
	return &cfg
}

// Load reads the YAML file at filename over the defaults. A missing file
// yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", filename, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Blockchain.Difficulty == 0 || c.Blockchain.Difficulty > blockchain.MaxDifficulty {
		return fmt.Errorf("difficulty must be between 1 and %d, got %d", blockchain.MaxDifficulty, c.Blockchain.Difficulty)
	}
	if math.IsNaN(c.Blockchain.Reward) || math.IsInf(c.Blockchain.Reward, 0) {
		return fmt.Errorf("reward must be a finite number, got %v", c.Blockchain.Reward)
	}
	switch strings.ToLower(c.Blockchain.HexEncoding) {
	case "", "padded", "compact":
	default:
		return fmt.Errorf("hex_encoding must be padded or compact, got %q", c.Blockchain.HexEncoding)
	}
	return nil
}
