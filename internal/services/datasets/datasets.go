// Package datasets resolves the browsable monitoring datasets configured for
// this deployment. A dataset maps a stable public id to the InfluxDB bucket
// holding its wells and readings.
package datasets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
)

// ErrNotFound indicates a lookup for a dataset id that is not configured.
var ErrNotFound = errors.New("unknown dataset")

var (
	mu       sync.RWMutex
	catalog  []config.DatasetConfig
	byID     map[string]config.DatasetConfig
	loadedOk bool
)

// Init loads the dataset catalog from application config.
func Init() error {
	return Load(config.Get().Datasets)
}

// Load replaces the catalog. Split from Init so tests can feed datasets
// without a config file.
func Load(list []config.DatasetConfig) error {
	index := make(map[string]config.DatasetConfig, len(list))
	for _, ds := range list {
		if ds.ID == "" || ds.Bucket == "" {
			return fmt.Errorf("dataset %q missing id or bucket", ds.Name)
		}
		if _, dup := index[ds.ID]; dup {
			return fmt.Errorf("duplicate dataset id %q", ds.ID)
		}
		index[ds.ID] = ds
	}

	mu.Lock()
	catalog = append([]config.DatasetConfig(nil), list...)
	byID = index
	loadedOk = true
	mu.Unlock()

	logger.WithScope("datasets").Info().Int("count", len(list)).Msg("Dataset catalog loaded")
	return nil
}

// List returns the configured datasets in config order.
func List() []config.DatasetConfig {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]config.DatasetConfig, len(catalog))
	copy(out, catalog)
	return out
}

// Resolve returns the dataset for an id, or ErrNotFound.
func Resolve(id string) (config.DatasetConfig, error) {
	mu.RLock()
	defer mu.RUnlock()
	if !loadedOk {
		return config.DatasetConfig{}, fmt.Errorf("%w: catalog not loaded", ErrNotFound)
	}
	ds, ok := byID[id]
	if !ok {
		return config.DatasetConfig{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return ds, nil
}
