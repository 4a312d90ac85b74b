package domain

// ModuleStatus is the lifecycle state of a module within one build, as reported to renderers.
type ModuleStatus string

const (
	// ModuleStatusPending indicates the module has not been reached yet.
	ModuleStatusPending ModuleStatus = "pending"
	// ModuleStatusCompiling indicates translation units are being compiled.
	ModuleStatusCompiling ModuleStatus = "compiling"
	// ModuleStatusLinking indicates the module artifact is being linked.
	ModuleStatusLinking ModuleStatus = "linking"
	// ModuleStatusBuilt indicates the module compiled and linked.
	ModuleStatusBuilt ModuleStatus = "built"
	// ModuleStatusUpToDate indicates no work was needed.
	ModuleStatusUpToDate ModuleStatus = "up-to-date"
	// ModuleStatusFailed indicates the module failed to compile or link.
	ModuleStatusFailed ModuleStatus = "failed"
	// ModuleStatusSkipped indicates a dependency failed so the module was not built.
	ModuleStatusSkipped ModuleStatus = "skipped"
)

// IsTerminal checks if a status is a terminal state.
func (s ModuleStatus) IsTerminal() bool {
	switch s {
	case ModuleStatusBuilt, ModuleStatusUpToDate, ModuleStatusFailed, ModuleStatusSkipped:
		return true
	default:
		return false
	}
}

// Phase is a state of the build orchestrator.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseDiscovering     Phase = "discovering"
	PhaseVerifying       Phase = "verifying"
	PhaseCycleChecking   Phase = "cycle-checking"
	PhaseGeneratingCode  Phase = "generating-code"
	PhaseBuildingModules Phase = "building-modules"
	PhaseLinking         Phase = "linking"
	PhaseDone            Phase = "done"
	PhaseFailed          Phase = "failed"
)

// CanTransition reports whether the orchestrator may move from p to next.
// Failed is reachable from every non-terminal phase.
func (p Phase) CanTransition(next Phase) bool {
	if p == PhaseDone || p == PhaseFailed {
		return next == PhaseDiscovering
	}
	if next == PhaseFailed {
		return true
	}
	switch p {
	case PhaseIdle:
		return next == PhaseDiscovering
	case PhaseDiscovering:
		return next == PhaseVerifying
	case PhaseVerifying:
		return next == PhaseCycleChecking
	case PhaseCycleChecking:
		return next == PhaseGeneratingCode
	case PhaseGeneratingCode:
		return next == PhaseBuildingModules
	case PhaseBuildingModules:
		return next == PhaseLinking || next == PhaseDone
	case PhaseLinking:
		return next == PhaseDone
	}
	return false
}
