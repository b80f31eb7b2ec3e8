//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Checks the schema files still compile to valid definitions.
func (Test) Schemas() error {
	_, err := executeCmd("go", withArgs("run", "../../cmd/schemagen", "validate", "scene.toml"), withDir("engine/scene"), withStream())
	return err
}
