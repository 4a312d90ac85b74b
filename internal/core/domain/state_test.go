package domain_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rybuild/internal/core/domain"
)

func TestBuildState(t *testing.T) {
	s := domain.NewBuildState()

	assert.Equal(t, domain.ModuleState{}, s.Get("Core"))
	assert.False(t, s.Visit("Core"))
	assert.True(t, s.Visit("Core"))

	s.Update("Core", func(st *domain.ModuleState) { st.AttemptedBuild = true })
	s.SetBuilt("Core", true)

	got := s.Get("Core")
	assert.True(t, got.Visited)
	assert.True(t, got.AttemptedBuild)
	assert.True(t, got.BuiltSuccessfully)
	assert.False(t, got.NeededFullRebuild)
}

func TestBuildState_Failed(t *testing.T) {
	s := domain.NewBuildState()
	for _, name := range []string{"UI", "App", "Core"} {
		s.Visit(name)
	}
	s.SetBuilt("Core", true)
	// Built but never visited must not count.
	s.SetBuilt("Ghost", false)

	assert.Equal(t, []string{"App", "UI"}, s.Failed())
}

func TestBuildState_ConcurrentVisit(t *testing.T) {
	s := domain.NewBuildState()

	var wg sync.WaitGroup
	var mu sync.Mutex
	first := 0
	for range 32 {
		wg.Go(func() {
			if !s.Visit("Core") {
				mu.Lock()
				first++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1, first)
}

func TestPhase_CanTransition(t *testing.T) {
	assert.True(t, domain.PhaseIdle.CanTransition(domain.PhaseDiscovering))
	assert.True(t, domain.PhaseGeneratingCode.CanTransition(domain.PhaseFailed))
	assert.True(t, domain.PhaseBuildingModules.CanTransition(domain.PhaseDone))
	assert.True(t, domain.PhaseBuildingModules.CanTransition(domain.PhaseLinking))
	assert.False(t, domain.PhaseDiscovering.CanTransition(domain.PhaseBuildingModules))
	assert.False(t, domain.PhaseDone.CanTransition(domain.PhaseFailed))
	assert.True(t, domain.PhaseDone.CanTransition(domain.PhaseDiscovering))
}

func TestModuleStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.ModuleStatusCompiling.IsTerminal())
	assert.True(t, domain.ModuleStatusUpToDate.IsTerminal())
	assert.True(t, domain.ModuleStatusSkipped.IsTerminal())
}
