package stockroom

import (
	"fmt"
)

type registeredSystem struct {
	system      System
	initialized bool
}

// RegisterSystem adds s to the systems run by InitializeSystems.
func (a *Allocator) RegisterSystem(s System) System {
	a.systems = append(a.systems, registeredSystem{system: s})
	return s
}

// InitializeSystems calls Register then Initialize on every system that has
// not been initialized yet, stopping at the first failure.
func (a *Allocator) InitializeSystems() error {
	for i := range a.systems {
		rs := &a.systems[i]
		if rs.initialized {
			continue
		}
		if err := rs.system.Register(a); err != nil {
			return fmt.Errorf("failed to register system %T: %w", rs.system, err)
		}
		if err := rs.system.Initialize(a); err != nil {
			return fmt.Errorf("failed to initialize system %T: %w", rs.system, err)
		}
		rs.initialized = true
	}
	return nil
}
