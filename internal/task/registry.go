package task

import (
	"sort"
)

// Registry maps task names to their definitions. It is never modified after
// NewRegistry returns, so one instance is shared by every concurrent branch
// of a run without locking.
type Registry struct {
	tasks map[string]Task
}

// NewRegistry builds a registry from the given definitions. The map is
// copied; later changes to it are not observed by the registry.
func NewRegistry(tasks map[string]Task) *Registry {
	copied := make(map[string]Task, len(tasks))
	for name, t := range tasks {
		copied[name] = t
	}
	return &Registry{tasks: copied}
}

// Lookup returns the task registered under name
func (r *Registry) Lookup(name string) (Task, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tasks[name]
	return t, ok
}

// Len returns the number of registered tasks
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tasks)
}

// Names returns every task name in lexical order
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shown returns the names of tasks that are not hidden, in lexical order
func (r *Registry) Shown() []string {
	var names []string
	for _, name := range r.Names() {
		if r.tasks[name].Shown() {
			names = append(names, name)
		}
	}
	return names
}
