package engine

import (
	"github.com/spaghettifunk/animares/engine/systems"
)

// Game is implemented by the application driving the engine. SystemManager
// is set by the engine before FnInitialize is called.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnBoot            Boot
	FnInitialize      Initialize
	FnUpdate          Update
	FnSync            Sync
	FnShutdown        Shutdown
}

// Boot runs before the systems exist; it may adjust ApplicationConfig.
type Boot func() error

// Initialize registers local constructors and creates the first resources.
type Initialize func() error

// Update runs on the writer loop before every commit.
type Update func(deltaTime float64) error

// Sync runs on the reader loop after a new snapshot was applied.
type Sync func(deltaTime float64) error

type Shutdown func() error
