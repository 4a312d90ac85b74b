package tui

import "go.trai.ch/rybuild/internal/core/domain"

// MsgPlan lists the modules of a build in build order.
type MsgPlan struct {
	Modules []string
}

// MsgModuleStart is sent when a module starts compiling.
type MsgModuleStart struct {
	Module      string
	Files       int
	FullRebuild bool
}

// MsgFileComplete is sent once per compiled file.
type MsgFileComplete struct {
	Module string
	File   string
	Index  int
	Total  int
	Output []byte
	Failed bool
}

// MsgModuleComplete is sent when a module reaches a terminal status.
type MsgModuleComplete struct {
	Module string
	Status domain.ModuleStatus
	Err    error
}
