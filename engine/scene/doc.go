// Package scene holds the typed resources of the testbed scene, generated
// from scene.toml.
package scene

//go:generate go run ../../cmd/schemagen generate -i scene.toml
