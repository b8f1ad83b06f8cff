package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config describes the indexer deployment: where state lives, where the
// query API listens, and the static badge catalogue with its threshold
// rules. Badge policy is configuration; the indexer only supplies the
// crossing mechanism.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	Environment   string `toml:"Environment"`
	Protocol      string `toml:"Protocol"`

	Tracks []Track `toml:"Tracks"`
	Badges []Badge `toml:"Badges"`
}

// Track groups badge definitions by protocol role.
type Track struct {
	Name string `toml:"Name"`
	Role string `toml:"Role"`
}

// Badge is a static badge definition plus the metric threshold that awards
// it. Threshold values are decimal strings so token-denominated metrics fit.
type Badge struct {
	Name        string `toml:"Name"`
	Description string `toml:"Description"`
	Track       string `toml:"Track"`
	VotingPower int64  `toml:"VotingPower"`
	Image       string `toml:"Image"`
	Metric      string `toml:"Metric"`
	Threshold   string `toml:"Threshold"`
}

// ThresholdValue parses the badge's threshold.
func (b Badge) ThresholdValue() (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(b.Threshold), 10)
	if !ok {
		return nil, fmt.Errorf("config: badge %s: bad threshold %q", b.Name, b.Threshold)
	}
	return value, nil
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration from an in-memory TOML document.
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = ":8647"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./emblem-data"
	}
	if strings.TrimSpace(c.Protocol) == "" {
		c.Protocol = "The Graph"
	}
}

// Validate checks referential integrity of the badge catalogue.
func (c *Config) Validate() error {
	tracks := make(map[string]bool, len(c.Tracks))
	for _, track := range c.Tracks {
		name := strings.TrimSpace(track.Name)
		if name == "" {
			return fmt.Errorf("config: track name must not be empty")
		}
		if tracks[name] {
			return fmt.Errorf("config: duplicate track %s", name)
		}
		tracks[name] = true
	}
	seen := make(map[string]bool, len(c.Badges))
	for _, badge := range c.Badges {
		name := strings.TrimSpace(badge.Name)
		if name == "" {
			return fmt.Errorf("config: badge name must not be empty")
		}
		if strings.Contains(name, "-") {
			return fmt.Errorf("config: badge %s: name must not contain the id separator", name)
		}
		if seen[name] {
			return fmt.Errorf("config: duplicate badge %s", name)
		}
		seen[name] = true
		if !tracks[badge.Track] {
			return fmt.Errorf("config: badge %s references unknown track %q", name, badge.Track)
		}
		if badge.VotingPower < 0 {
			return fmt.Errorf("config: badge %s: voting power must not be negative", name)
		}
		if strings.TrimSpace(badge.Metric) == "" {
			return fmt.Errorf("config: badge %s: metric must not be empty", name)
		}
		if _, err := badge.ThresholdValue(); err != nil {
			return err
		}
	}
	return nil
}
