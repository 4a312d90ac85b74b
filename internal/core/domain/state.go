package domain

import (
	"slices"
	"sync"
)

// ModuleState is the per-invocation build record of one module.
// BuiltSuccessfully is meaningful only when Visited is set.
type ModuleState struct {
	Visited           bool
	AttemptedBuild    bool
	BuiltSuccessfully bool
	NeededFullRebuild bool
}

// BuildState tracks every module touched by one build invocation.
// It is created once per build and is safe for concurrent use.
type BuildState struct {
	mu      sync.RWMutex
	modules map[string]ModuleState
}

// NewBuildState creates an empty BuildState.
func NewBuildState() *BuildState {
	return &BuildState{modules: make(map[string]ModuleState)}
}

// Get returns the state of a module. Unknown modules report the zero state.
func (s *BuildState) Get(name string) ModuleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modules[name]
}

// Update applies fn to the state of a module under the lock.
func (s *BuildState) Update(name string, fn func(*ModuleState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.modules[name]
	fn(&st)
	s.modules[name] = st
}

// Visit marks a module visited and reports whether it had already been visited.
func (s *BuildState) Visit(name string) (alreadyVisited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.modules[name]
	if st.Visited {
		return true
	}
	st.Visited = true
	s.modules[name] = st
	return false
}

// SetBuilt records the outcome of a module build.
func (s *BuildState) SetBuilt(name string, ok bool) {
	s.Update(name, func(st *ModuleState) { st.BuiltSuccessfully = ok })
}

// Failed returns the names of visited modules that did not build, sorted.
func (s *BuildState) Failed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var failed []string
	for name, st := range s.modules {
		if st.Visited && !st.BuiltSuccessfully {
			failed = append(failed, name)
		}
	}
	slices.Sort(failed)
	return failed
}
