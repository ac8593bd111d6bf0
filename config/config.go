// Package config loads planetz.toml and applies PLANETZ_* environment overrides
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/planetz/parameter"
)

// Duration decodes TOML strings such as "250ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// TargetingConfig controls the target registry
type TargetingConfig struct {
	RangeKm          float64  `toml:"range_km"`           // System-level fallback range
	EquipmentRangeKm float64  `toml:"equipment_range_km"` // Targeting computer override, 0 = none
	CyclingRangeKm   float64  `toml:"cycling_range_km"`   // Cache enrichment range, clamped to >= effective range
	ScanInterval     Duration `toml:"scan_interval"`
	SortInterval     Duration `toml:"sort_interval"`
}

// DiscoveryConfig controls proximity discovery
type DiscoveryConfig struct {
	EquipmentLevel int      `toml:"equipment_level"`
	CellSizeKm     float64  `toml:"cell_size_km"` // Clamped to >= discovery range
	MaxSectors     int      `toml:"max_sectors"`
	ScanInterval   Duration `toml:"scan_interval"`
}

// AudioConfig controls the sound sink
type AudioConfig struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"master_volume"`
}

// RewardsConfig points give_reward at the mission server
type RewardsConfig struct {
	Endpoint string   `toml:"endpoint"` // Empty = always use the local fallback catalog
	Timeout  Duration `toml:"timeout"`
}

// ServerConfig controls the scene bridge listener
type ServerConfig struct {
	SceneBridgeAddr string `toml:"scene_bridge_addr"` // Empty disables the bridge
}

// DataConfig locates data files
type DataConfig struct {
	UniverseFile string `toml:"universe_file"`
	MissionFile  string `toml:"mission_file"`
	StoreDir     string `toml:"store_dir"` // Empty = in-memory store
	StartSector  string `toml:"start_sector"`
}

// Config is the root configuration
type Config struct {
	Targeting TargetingConfig   `toml:"targeting"`
	Discovery DiscoveryConfig   `toml:"discovery"`
	Audio     AudioConfig       `toml:"audio"`
	Rewards   RewardsConfig     `toml:"rewards"`
	Server    ServerConfig      `toml:"server"`
	Data      DataConfig        `toml:"data"`
	Factions  map[string]string `toml:"factions"` // Faction name -> diplomacy word
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Targeting: TargetingConfig{
			RangeKm:        parameter.DefaultTargetingRange,
			CyclingRangeKm: parameter.DefaultCyclingRange,
			ScanInterval:   Duration{parameter.TargetScanInterval},
			SortInterval:   Duration{parameter.TargetSortInterval},
		},
		Discovery: DiscoveryConfig{
			EquipmentLevel: 1,
			CellSizeKm:     parameter.DiscoveryBaseRange,
			MaxSectors:     parameter.DiscoveryMaxSectors,
			ScanInterval:   Duration{parameter.DiscoveryScanInterval},
		},
		Audio: AudioConfig{
			Enabled:      false,
			MasterVolume: 0.8,
		},
		Rewards: RewardsConfig{
			Timeout: Duration{parameter.DefaultRewardTimeout},
		},
		Data: DataConfig{
			UniverseFile: "data/universe.yaml",
			MissionFile:  "data/missions.yaml",
			StartSector:  "A0",
		},
		Factions: map[string]string{},
	}
}

// Load reads path over the defaults; a missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EffectiveTargetingRange prefers the equipment override when present
func (c *Config) EffectiveTargetingRange() float64 {
	if c.Targeting.EquipmentRangeKm > 0 {
		return c.Targeting.EquipmentRangeKm
	}
	if c.Targeting.RangeKm > 0 {
		return c.Targeting.RangeKm
	}
	return parameter.DefaultTargetingRange
}

// EffectiveCyclingRange is never below the targeting range
func (c *Config) EffectiveCyclingRange() float64 {
	r := c.EffectiveTargetingRange()
	if c.Targeting.CyclingRangeKm > r {
		return c.Targeting.CyclingRangeKm
	}
	return r
}

// Validate rejects values no component can run with
func (c *Config) Validate() error {
	if c.Targeting.RangeKm < 0 || c.Targeting.EquipmentRangeKm < 0 {
		return fmt.Errorf("targeting range must not be negative")
	}
	if _, ok := parameter.DiscoveryRangeByLevel[c.Discovery.EquipmentLevel]; !ok {
		return fmt.Errorf("discovery equipment level %d outside table", c.Discovery.EquipmentLevel)
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return fmt.Errorf("audio master_volume %v outside [0,1]", c.Audio.MasterVolume)
	}
	if c.Data.StartSector == "" {
		return fmt.Errorf("data start_sector must be set")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLANETZ_TARGETING_RANGE_KM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Targeting.RangeKm = f
		}
	}
	if v := os.Getenv("PLANETZ_DISCOVERY_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.EquipmentLevel = n
		}
	}
	if v := os.Getenv("PLANETZ_AUDIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Audio.Enabled = b
		}
	}
	if v := os.Getenv("PLANETZ_MASTER_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Audio.MasterVolume = min(max(float64(n)/100.0, 0), 1)
		}
	}
	if v := os.Getenv("PLANETZ_REWARDS_ENDPOINT"); v != "" {
		cfg.Rewards.Endpoint = v
	}
	if v := os.Getenv("PLANETZ_SCENE_BRIDGE_ADDR"); v != "" {
		cfg.Server.SceneBridgeAddr = v
	}
	if v := os.Getenv("PLANETZ_STORE_DIR"); v != "" {
		cfg.Data.StoreDir = v
	}
}
