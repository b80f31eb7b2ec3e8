package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/animares/engine/containers"
	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/systems"
)

var ErrInvalidConfig = errors.New("invalid application config")

type ArenaConfig struct {
	// Arena size in bytes.
	Capacity uint32 `toml:"capacity" validate:"required,min=64"`
	// heap, mmap or file.
	Backing string `toml:"backing" validate:"omitempty,oneof=heap mmap file"`
	// Backing file, required when Backing is file.
	Path string `toml:"path" validate:"required_if=Backing file"`
}

type ApplicationConfig struct {
	// The application name used in logs.
	Name     string `toml:"name" validate:"required"`
	LogLevel string `toml:"log_level" validate:"omitempty,oneof=debug info warn error fatal"`
	// Writer loop ticks per second.
	TickRate uint32 `toml:"tick_rate" validate:"min=1,max=1000"`
	// Reader loop ticks per second; 0 follows TickRate.
	SyncRate uint32 `toml:"sync_rate" validate:"max=1000"`

	Arena ArenaConfig `toml:"arena"`
	// Upper bound of live resources, 0 for no limit.
	MaxResources uint32 `toml:"max_resources"`
	// Capacity the lifecycle message queue starts with.
	QueueSize int `toml:"queue_size" validate:"min=0"`

	JobWorkers   int `toml:"job_workers" validate:"min=1,max=256"`
	JobQueueSize int `toml:"job_queue_size" validate:"min=0"`

	// Address to serve prometheus metrics on, empty to disable.
	MetricsAddr string `toml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// DefaultApplicationConfig is what LoadApplicationConfig starts from, so a
// config file only needs the keys it changes.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "Anima",
		LogLevel: "info",
		TickRate: 60,
		Arena: ArenaConfig{
			Capacity: 1 << 20,
			Backing:  string(containers.ArenaBackingHeap),
		},
		QueueSize:    64,
		JobWorkers:   2,
		JobQueueSize: 64,
	}
}

var validate = validator.New()

// LoadApplicationConfig reads a TOML config file on top of the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseApplicationConfig(data)
}

func ParseApplicationConfig(data []byte) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *ApplicationConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func (c *ApplicationConfig) SyncInterval() time.Duration {
	if c.SyncRate == 0 {
		return c.TickInterval()
	}
	return time.Second / time.Duration(c.SyncRate)
}

func (c *ApplicationConfig) Level() core.LogLevel {
	return core.ParseLogLevel(c.LogLevel)
}

// SystemManagerConfig maps the application settings onto the resource systems.
func (c *ApplicationConfig) SystemManagerConfig() systems.SystemManagerConfig {
	return systems.SystemManagerConfig{
		Remote: systems.RemoteResourceSystemConfig{
			Arena: containers.ArenaConfig{
				Capacity: c.Arena.Capacity,
				Backing:  containers.ArenaBacking(c.Arena.Backing),
				Path:     c.Arena.Path,
			},
			MaxResources: c.MaxResources,
			QueueSize:    c.QueueSize,
		},
		JobWorkers:   c.JobWorkers,
		JobQueueSize: c.JobQueueSize,
	}
}
