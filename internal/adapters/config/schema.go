package config

import (
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModuleFile represents the structure of a .module file.
type ModuleFile struct {
	Name       string        `yaml:"Name"`
	Type       string        `yaml:"Type"`
	Modules    []string      `yaml:"Modules"`
	Macros     []string      `yaml:"Macros"`
	Extern     []string      `yaml:"Extern"`
	ThirdParty ThirdPartyDTO `yaml:"ThirdParty"`
	Libraries  TargetLists   `yaml:"Libraries"`
}

// ThirdPartyDTO represents the module's private third-party section.
type ThirdPartyDTO struct {
	Include      []string    `yaml:"Include"`
	LibraryPaths TargetLists `yaml:"LibraryPaths"`
}

// TargetLists is a string list that is either shared by every target or keyed by
// architecture, operating system and toolset:
//
//	"Libraries": { "x64": { "Linux": { "GCC": ["dl", "pthread"] } } }
type TargetLists struct {
	All      []string
	ByTarget map[string]map[string]map[string][]string
}

// UnmarshalYAML accepts a sequence or a nested mapping.
func (t *TargetLists) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&t.All)
	case yaml.MappingNode:
		return node.Decode(&t.ByTarget)
	default:
		return nil
	}
}

// Resolve returns the entries that apply to the given target path.
func (t TargetLists) Resolve(targetPath string) []string {
	out := append([]string(nil), t.All...)

	parts := strings.Split(filepath.ToSlash(targetPath), "/")
	if len(parts) != 3 {
		return out
	}
	return append(out, t.ByTarget[parts[0]][parts[1]][parts[2]]...)
}
