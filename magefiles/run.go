//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with anima.toml.
func (Run) Engine() error {
	mg.Deps(Build.Generate)
	fmt.Println("Run engine...")
	_, err := executeCmd("go", withArgs("run", ".", "-config", "anima.toml"), withStream())
	return err
}

// Watches the engine for schema changes and regenerates on save.
func (Run) Watch() error {
	_, err := executeCmd("go", withArgs("run", "./cmd/schemagen", "watch", "engine"), withStream())
	return err
}
