package core

import (
	"errors"
)

var (
	ErrNotInitialized     = errors.New("subsystem not initialized")
	ErrAlreadyInitialized = errors.New("subsystem already initialized")
	ErrShutdown           = errors.New("subsystem shut down")
)
