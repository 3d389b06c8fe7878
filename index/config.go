package index

import (
	"github.com/jobala/bplus/util"
	"github.com/pkg/errors"
)

const DEFAULT_TREE_NAME = "default"

// Config describes a tree. It is also written to the header page of a
// snapshot.
type Config struct {
	Name  string `msgpack:"name"`
	Order int    `msgpack:"order"`
}

func DefaultConfig() Config {
	return Config{
		Name:  DEFAULT_TREE_NAME,
		Order: DEFAULT_ORDER,
	}
}

func (c Config) validate() error {
	if c.Name == "" {
		return errors.New("tree name cannot be empty")
	}
	if c.Order < MIN_ORDER {
		return errors.Wrapf(util.NewInvalidOrder(c.Order, MIN_ORDER), "invalid config for tree %q", c.Name)
	}
	return nil
}
