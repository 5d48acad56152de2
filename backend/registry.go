package backend

import (
	"slices"
	"sync"
)

// Names of the drivers shipped with gameloop.
const (
	DriverNull = "null"
	DriverWGPU = "wgpu"
)

// DriverFactory returns a fresh driver.
type DriverFactory func() Driver

var (
	registryMu sync.RWMutex
	factories  = map[string]DriverFactory{}

	// preferred is the order Default tries drivers in. Drivers not listed
	// follow in name order.
	preferred = []string{DriverWGPU, DriverNull}
)

// Register makes a driver available under name, replacing any previous
// factory. Driver packages call it from init, so a blank import is enough
// to enable a driver.
func Register(name string, factory DriverFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes the driver registered under name.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available lists the registered driver names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames()
}

// IsRegistered reports whether a driver is registered under name.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get creates the driver registered under name, or returns nil.
func Get(name string) Driver {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default creates the first driver whose factory returns non-nil, trying
// wgpu, then null, then the remaining names in order. It returns nil when
// no driver can be created.
func Default() Driver {
	registryMu.RLock()
	defer registryMu.RUnlock()

	order := slices.Clone(preferred)
	for _, name := range sortedNames() {
		if !slices.Contains(preferred, name) {
			order = append(order, name)
		}
	}
	for _, name := range order {
		factory, ok := factories[name]
		if !ok {
			continue
		}
		if d := factory(); d != nil {
			return d
		}
	}
	return nil
}

// Lookup resolves a configured driver name. The empty name selects Default.
func Lookup(name string) (Driver, error) {
	var d Driver
	if name == "" {
		d = Default()
	} else {
		d = Get(name)
	}
	if d == nil {
		return nil, ErrBackendNotAvailable
	}
	return d, nil
}

// sortedNames returns the registered names in order. Callers hold registryMu.
func sortedNames() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
