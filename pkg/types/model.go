// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the linkinfo domain model shared across linkscope
// packages: the entities reconstructed from a linker-generated linkinfo
// document, the folder hierarchy derived from input-file paths, and the
// aggregated reference graph handed to exporters.
package types

import "sort"

// InputFile represents an object file or archive member consumed by the
// link step. Its size is never stored; it is derived from the owned
// components.
type InputFile struct {
	ID         string             // Unique id within one document
	Name       string             // Display name, e.g. "main.o" (empty if absent)
	Path       string             // Source path, either separator convention (empty if absent)
	Components []*ObjectComponent // Owned components in document order
}

// TotalSize returns the sum of all owned component sizes in bytes.
func (f *InputFile) TotalSize() int64 {
	var total int64
	for _, c := range f.Components {
		total += c.SizeOrZero()
	}
	return total
}

// DisplayName returns the file name, falling back to the id.
func (f *InputFile) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// SortedComponents returns the owned components sorted by size descending.
// Components of equal size keep their document order.
func (f *InputFile) SortedComponents() []*ObjectComponent {
	sorted := make([]*ObjectComponent, len(f.Components))
	copy(sorted, f.Components)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SizeOrZero() > sorted[j].SizeOrZero()
	})
	return sorted
}

// ObjectComponent is the finest-grained entity: a section or symbol placed
// by the linker. Optional scalar fields are pointers; nil means the source
// document did not carry a usable value.
type ObjectComponent struct {
	ID          string  // Unique id within one document
	Name        string  // Section name, e.g. ".text" (empty if absent)
	LoadAddress *uint64 // Address the section is loaded at
	RunAddress  *uint64 // Address the section runs at
	Size        *int64  // Size in bytes
	Alignment   *int64  // Required alignment
	Readonly    *bool   // Read-only flag
	Executable  *bool   // Executable flag
	Value       string  // Opaque metadata value (empty if absent)

	// File is the owning input file, nil for orphaned components.
	File *InputFile

	// ReadOnlyRefs and ReadWriteRefs hold referenced component ids. They
	// stay ids after resolution: the reference graph consumes them as the
	// raw edge input, and targets may be filtered or unresolved.
	ReadOnlyRefs  []string
	ReadWriteRefs []string
}

// SizeOrZero returns the component size, treating an absent size as 0.
func (c *ObjectComponent) SizeOrZero() int64 {
	if c.Size == nil {
		return 0
	}
	return *c.Size
}

// DisplayName returns the component name, falling back to the id.
func (c *ObjectComponent) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// LogicalGroup is a named, possibly nested grouping of components used for
// memory-area reporting. Nested groups form a tree in well-formed input,
// but the format does not guarantee acyclicity.
type LogicalGroup struct {
	ID         string             // Unique id within one document
	Name       string             // Display name (empty if absent)
	Size       *int64             // Explicit size, nil to derive from contents
	Components []*ObjectComponent // Directly contained components, document order
	Subgroups  []*LogicalGroup    // Nested groups, document order
}

// DisplayName returns the group name, falling back to the id.
func (g *LogicalGroup) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.ID
}

// AccumulatedSize returns the explicit size if present, otherwise the sum
// of direct component sizes plus recursively accumulated subgroup sizes.
// A subgroup shared between siblings is counted once per occurrence; a
// group already on the recursion stack contributes 0, so reference cycles
// terminate instead of recursing forever.
func (g *LogicalGroup) AccumulatedSize() int64 {
	return g.accumulatedSize(make(map[*LogicalGroup]bool))
}

func (g *LogicalGroup) accumulatedSize(visiting map[*LogicalGroup]bool) int64 {
	if visiting[g] {
		return 0
	}
	if g.Size != nil {
		return *g.Size
	}
	visiting[g] = true
	var total int64
	for _, c := range g.Components {
		total += c.SizeOrZero()
	}
	for _, sub := range g.Subgroups {
		total += sub.accumulatedSize(visiting)
	}
	delete(visiting, g)
	return total
}

// Usage kinds for MemoryUsage. Unknown span tags keep their raw tag text.
const (
	UsageAllocated = "allocated"
	UsageAvailable = "available"
)

// MemoryUsage is one allocated-or-available span within a memory area.
type MemoryUsage struct {
	Kind         string        // UsageAllocated, UsageAvailable, or a raw tag
	StartAddress *uint64       // Span start address
	Size         *int64        // Span size in bytes
	Group        *LogicalGroup // Occupying group (allocated spans only, nil if unresolved)
}

// MemoryArea is a named memory region, e.g. a flash or RAM bank.
type MemoryArea struct {
	Name      string         // Region name
	Length    *int64         // Total region length in bytes
	UsedSpace *int64         // Used byte count reported by the linker
	Usages    []*MemoryUsage // Usage spans in document order
}

// AccumulatedSize returns the reported used space if present, otherwise
// the sum of the allocated spans' group accumulated sizes.
func (a *MemoryArea) AccumulatedSize() int64 {
	if a.UsedSpace != nil {
		return *a.UsedSpace
	}
	var total int64
	for _, u := range a.Usages {
		if u.Kind == UsageAllocated && u.Group != nil {
			total += u.Group.AccumulatedSize()
		}
	}
	return total
}
