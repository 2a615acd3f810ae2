package config

import (
	"encoding/json"
	"os"
	"path"
	"reflect"

	"trade-builder/lib/utils"
	"trade-builder/modules/aggregate"

	"github.com/chebyrash/promise"
	pkgerrors "github.com/pkg/errors"
)

const DATA_DIR = "data"
const CONFIG_DIR = "config"

// Config is a JSON file named after T under <dataDir>/config. A missing file
// is created from the default value on Init.
type Config[T any] struct {
	defaultValue T
	dataDir      string

	loaded bool
	value  T
}

var _ aggregate.Plugin = &Config[struct{}]{}

// New uses DATA_DIR when dataDir is nil or empty.
func New[T any](defaultValue T, dataDir *string) *Config[T] {
	dir := DATA_DIR
	if dataDir != nil && *dataDir != "" {
		dir = *dataDir
	}
	return &Config[T]{defaultValue: defaultValue, dataDir: dir}
}

func (c *Config[T]) FilePath() string {
	name := reflect.TypeFor[T]().Name()
	return path.Join(c.dataDir, CONFIG_DIR, name+".json")
}

func (c *Config[T]) Init() error {
	b, err := os.ReadFile(c.FilePath())
	if os.IsNotExist(err) {
		if err := c.Update(func(t *T) {
			*t = c.defaultValue
		}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else if err := json.Unmarshal(b, &c.value); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse %s", c.FilePath())
	}
	c.loaded = true
	return nil
}

func (c *Config[T]) Start() *promise.Promise[any] {
	if !c.loaded {
		return utils.PromiseReject[any](pkgerrors.Errorf("config %s not initialized", c.FilePath()))
	}
	return utils.PromiseResolve[any](nil)
}

func (c *Config[T]) Stop() error {
	return nil
}

func (c *Config[T]) Get() T {
	return c.value
}

// Update applies updater to a copy of the value and writes it back. The
// in-memory value only changes once the file is written.
func (c *Config[T]) Update(updater func(*T)) error {
	temp := c.value
	updater(&temp)
	b, err := json.MarshalIndent(temp, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(c.FilePath()), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(c.FilePath(), b, 0644); err != nil {
		return err
	}
	c.value = temp
	return nil
}
