// Package engine implements the container lifecycle orchestration core:
// identity allocation, the snapshot store, the image pipeline, the network
// fabric, the resource limiter, the container supervisor and attach.
package engine

import (
	"context"
	"os"

	"github.com/mirkobrombin/bocker/pkg/config"
	"github.com/sirupsen/logrus"
)

// Engine is the central object every operation is a method of, analogous
// in shape to the teacher's Cpak struct: a config value plus a background
// context, constructed once per invocation.
type Engine struct {
	Config config.Config
	Ctx    context.Context
	Log    *logrus.Logger
	store  *Store
}

// New builds an Engine from a Config, opening (and, if necessary,
// initializing) the sqlite catalogue.
func New(cfg config.Config, log *logrus.Logger) (e *Engine, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	e = &Engine{Config: cfg, Ctx: context.Background(), Log: log}

	if err = ensureDirs(cfg); err != nil {
		return nil, err
	}

	e.store, err = newStore(cfg.StorePath())
	if err != nil {
		return nil, err
	}

	return e, nil
}

// Close releases engine-held resources (currently just the sqlite handle).
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.close()
	}
	return nil
}

// ensureDirs creates the snapshot root and catalogue directory if absent.
func ensureDirs(cfg config.Config) error {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(cfg.StorePath(), 0o755)
}
