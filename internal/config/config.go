package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"studpoker-server/internal/util"
)

// Config provides configuration for the stud poker server
type Config struct {
	loaded bool

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`

	// TurnTimeoutSeconds is how long a player may sit on their turn before
	// the table plays for them. Zero disables the timer entirely.
	TurnTimeoutSeconds int `yaml:"turnTimeoutSeconds" envconfig:"turn_timeout_seconds"`

	// RobotDelayMillis is how long a robot appears to think before acting
	RobotDelayMillis int `yaml:"robotDelayMillis" envconfig:"robot_delay_millis"`

	// RecycleAfterMinutes is how long an unstarted table sticks around
	// before its slot may be reused
	RecycleAfterMinutes int `yaml:"recycleAfterMinutes" envconfig:"recycle_after_minutes"`

	Ante          int    `yaml:"ante" envconfig:"ante"`
	StartingStake int    `yaml:"startingStake" envconfig:"starting_stake"`
	FacesPath     string `yaml:"facesPath" envconfig:"faces_path"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present
func DefaultConfig() Config {
	var c Config
	c.Log.Level = "info"
	c.TurnTimeoutSeconds = 60
	c.RobotDelayMillis = 2000
	c.RecycleAfterMinutes = 5
	c.Ante = 1
	c.StartingStake = 1000
	c.FacesPath = "faces/"
	return c
}

// TurnTimeout returns the turn timeout as a duration
func (c Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSeconds) * time.Second
}

// RobotDelay returns the robot thinking delay as a duration
func (c Config) RobotDelay() time.Duration {
	return time.Duration(c.RobotDelayMillis) * time.Millisecond
}

// RecycleAfter returns the table recycle window as a duration
func (c Config) RecycleAfter() time.Duration {
	return time.Duration(c.RecycleAfterMinutes) * time.Minute
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is not an error;
// the defaults plus any environment overrides apply.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("STUD_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("stud", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
