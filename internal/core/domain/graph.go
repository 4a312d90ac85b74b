// Package domain contains the core domain models and business logic for the module dependency graph.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the set of discovered modules keyed by name.
// It is read-only once validation has finished.
type Graph struct {
	modules map[string]*Module
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		modules: make(map[string]*Module),
	}
}

// AddModule adds a module to the graph.
// It returns an error if a module with the same name already exists.
func (g *Graph) AddModule(m *Module) error {
	if existing, exists := g.modules[m.Name]; exists {
		return zerr.With(zerr.With(ErrDuplicateModule, "module", m.Name), "first_definition", existing.FilePath)
	}
	g.modules[m.Name] = m
	return nil
}

// Merge adds every module of other to the graph.
func (g *Graph) Merge(other *Graph) error {
	for m := range other.Modules() {
		if err := g.AddModule(m); err != nil {
			return err
		}
	}
	return nil
}

// Module returns the module with the given name.
func (g *Graph) Module(name string) (*Module, bool) {
	m, ok := g.modules[name]
	return m, ok
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int {
	return len(g.modules)
}

// Names returns every module name in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.modules))
	for name := range g.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Modules yields every module in sorted name order.
func (g *Graph) Modules() iter.Seq[*Module] {
	return func(yield func(*Module) bool) {
		for _, name := range g.Names() {
			if !yield(g.modules[name]) {
				return
			}
		}
	}
}

// CheckDependencies verifies that every declared dependency resolves to a known module.
func (g *Graph) CheckDependencies() error {
	for m := range g.Modules() {
		for _, dep := range m.Dependencies {
			if _, ok := g.modules[dep]; !ok {
				return zerr.With(zerr.With(ErrMissingDependency, "module", m.Name), "dependency", dep)
			}
		}
	}
	return nil
}

// TopologicalOrder returns the requested modules and everything they depend on,
// ordered so that every dependency precedes its dependents.
// Names that do not resolve to a module are skipped.
func (g *Graph) TopologicalOrder(names []string) []string {
	order := make([]string, 0, len(g.modules))
	visited := make(map[string]bool, len(g.modules))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		m, ok := g.modules[name]
		if !ok {
			return
		}
		visited[name] = true

		for _, dep := range m.Dependencies {
			visit(dep)
		}
		order = append(order, name)
	}

	for _, name := range names {
		visit(name)
	}
	return order
}

// LinkOrder returns TopologicalOrder reversed: dependents precede their dependencies,
// which is the order single-pass linkers resolve libraries in.
func (g *Graph) LinkOrder(names []string) []string {
	order := g.TopologicalOrder(names)
	slices.Reverse(order)
	return order
}

// ancestor is one link of the DFS parent chain used by CheckCircular.
type ancestor struct {
	name   string
	parent *ancestor
}

func (a *ancestor) contains(name string) bool {
	for cur := a; cur != nil; cur = cur.parent {
		if cur.name == name {
			return true
		}
	}
	return false
}

// CheckCircular searches the graph for a dependency cycle.
// It returns the first cycle found as an ordered chain where each module depends on
// the next, or nil if the graph is acyclic.
func (g *Graph) CheckCircular() []string {
	done := make(map[string]bool, len(g.modules))

	var visit func(name string, parent *ancestor) []string
	visit = func(name string, parent *ancestor) []string {
		m, ok := g.modules[name]
		if !ok || done[name] {
			return nil
		}
		node := &ancestor{name: name, parent: parent}

		for _, dep := range m.Dependencies {
			if node.contains(dep) {
				return unwind(node, dep)
			}
			if cycle := visit(dep, node); cycle != nil {
				return cycle
			}
		}

		done[name] = true
		return nil
	}

	for _, name := range g.Names() {
		if cycle := visit(name, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

// unwind walks the parent chain from the detection point up to and including
// the repeated module and returns the chain in dependency order.
func unwind(from *ancestor, repeated string) []string {
	var chain []string
	for cur := from; cur != nil; cur = cur.parent {
		chain = append(chain, cur.name)
		if cur.name == repeated {
			break
		}
	}
	slices.Reverse(chain)
	return chain
}

// Validate checks that every dependency exists and that the graph is acyclic.
func (g *Graph) Validate() error {
	if err := g.CheckDependencies(); err != nil {
		return err
	}
	if cycle := g.CheckCircular(); cycle != nil {
		return zerr.With(ErrCycleDetected, "cycle", FormatCycle(cycle))
	}
	return nil
}

// FormatCycle renders a cycle chain as "A -> B -> C -> A".
func FormatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(cycle, " -> ") + " -> " + cycle[0]
}

// RecurseDependencies returns every module transitively reachable from the named module,
// in breadth-first discovery order, excluding the module itself.
func (g *Graph) RecurseDependencies(name string) []string {
	root, ok := g.modules[name]
	if !ok {
		return nil
	}

	seen := map[string]bool{name: true}
	queue := slices.Clone(root.Dependencies)
	var result []string

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true

		m, ok := g.modules[next]
		if !ok {
			continue
		}
		result = append(result, next)
		queue = append(queue, m.Dependencies...)
	}
	return result
}

// Dependents returns the names of modules that declare a direct dependency on name.
func (g *Graph) Dependents(name string) []string {
	var dependents []string
	for m := range g.Modules() {
		if slices.Contains(m.Dependencies, name) {
			dependents = append(dependents, m.Name)
		}
	}
	return dependents
}

// IncludeDirs returns the header search path of the named module: its own Include and
// Generated directories, those of every module it transitively depends on, its
// third-party include paths, then the include directories of externs used by the module
// or its dependencies. Duplicates are dropped, first occurrence wins.
func (g *Graph) IncludeDirs(name string) []string {
	m, ok := g.modules[name]
	if !ok {
		return nil
	}

	closure := []*Module{m}
	for _, dep := range g.RecurseDependencies(name) {
		closure = append(closure, g.modules[dep])
	}

	var dirs []string
	for _, mod := range closure {
		dirs = append(dirs, mod.IncludeDir(), mod.GeneratedDir())
	}
	dirs = append(dirs, m.IncludePaths...)
	for _, mod := range closure {
		for _, ext := range mod.Extern {
			dirs = append(dirs, ext.IncludeDir())
		}
	}
	return dedupe(dirs)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
