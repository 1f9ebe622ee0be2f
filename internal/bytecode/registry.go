package bytecode

import "fmt"

// FunctionMetadata describes a registered function or label. Labels are
// modeled as zero-parameter entries rather than a separate table.
type FunctionMetadata struct {
	Name                 string
	EntryPC              int
	ParameterNameIndices []int
}

// Registry is a strict bijection between names and entry program counters:
// no two entries may share a name, and no two entries may share an
// entry_pc.
type Registry struct {
	byName  map[string]*FunctionMetadata
	byEntry map[int]*FunctionMetadata
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*FunctionMetadata),
		byEntry: make(map[int]*FunctionMetadata),
	}
}

// Register adds a function or label, failing if either its name or its
// entry_pc is already taken.
func (r *Registry) Register(meta FunctionMetadata) error {
	if _, ok := r.byName[meta.Name]; ok {
		return fmt.Errorf("name %q already registered", meta.Name)
	}
	if _, ok := r.byEntry[meta.EntryPC]; ok {
		return fmt.Errorf("entry pc %d already registered", meta.EntryPC)
	}
	m := meta
	r.byName[m.Name] = &m
	r.byEntry[m.EntryPC] = &m
	return nil
}

// Lookup returns the metadata for name.
func (r *Registry) Lookup(name string) (*FunctionMetadata, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// NameAt returns the name registered at the given entry_pc, if any.
func (r *Registry) NameAt(entryPC int) (string, bool) {
	m, ok := r.byEntry[entryPC]
	if !ok {
		return "", false
	}
	return m.Name, true
}

// Names returns every registered name, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
