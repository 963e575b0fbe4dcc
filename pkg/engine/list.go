package engine

import "github.com/mirkobrombin/bocker/pkg/types"

// Images lists known images with their origin (spec.md §6 "images").
func (e *Engine) Images() ([]types.Image, error) {
	return e.store.images()
}

// Containers lists known containers with their launch command (spec.md §6
// "ps").
func (e *Engine) Containers() ([]types.Container, error) {
	return e.store.containers()
}
