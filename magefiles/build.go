//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Regenerates the typed scene resources from their schema.
func (Build) Generate() error {
	_, err := executeCmd("go", withArgs("run", "./cmd/schemagen", "generate", "-i", "engine/scene/scene.toml"), withStream())
	return err
}

// Builds the testbed and the schema generator into bin/.
func (Build) All() error {
	mg.Deps(Build.Generate)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima", "."), withStream()); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", "bin/schemagen", "./cmd/schemagen"), withStream())
	return err
}
