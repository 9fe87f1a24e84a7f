// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// IssueCode identifies a class of soft resolution issue.
type IssueCode string

const (
	// IssueMissingInputFileRef: a component references an unknown input file.
	IssueMissingInputFileRef IssueCode = "missing_input_file_ref"
	// IssueMissingObjectComponent: a logical group references an unknown,
	// non-filtered component.
	IssueMissingObjectComponent IssueCode = "missing_object_component"
	// IssueMissingMemoryLogicalGroup: an allocated span references an
	// unknown logical group.
	IssueMissingMemoryLogicalGroup IssueCode = "missing_memory_logical_group"
	// IssueMissingObjectComponentRef: an RO/RW reference targets an id that
	// is neither live nor filtered.
	IssueMissingObjectComponentRef IssueCode = "missing_object_component_ref"
)

// Issue is one non-fatal problem recorded during resolution. Fatal
// conditions (malformed XML, a group referencing a wholly unknown group)
// abort instead of producing an Issue.
type Issue struct {
	Code    IssueCode         // Stable machine-readable code
	Message string            // Human-readable description
	Context map[string]string // Entity ids involved
}

// Document is the aggregate root handed from the parser to every consumer.
// It is built once, synchronously, from one linkinfo document and treated
// as immutable afterwards; folder compaction is the one controlled
// exception.
//
// Go maps do not iterate deterministically, so the document also carries
// the entity ids in document order. Resolution and every exporter iterate
// those slices.
type Document struct {
	InputFiles map[string]*InputFile       // Keyed by id
	Components map[string]*ObjectComponent // Live components, keyed by id
	Groups     map[string]*LogicalGroup    // Keyed by id
	Areas      map[string]*MemoryArea      // Keyed by area name

	FileOrder      []string // Input-file ids in document order
	ComponentOrder []string // Live component ids in document order
	GroupOrder     []string // Group ids in document order
	AreaOrder      []string // Area names in document order

	// FilteredIDs holds component ids excluded by the debug filter.
	// References to these are dropped silently, never reported.
	FilteredIDs map[string]struct{}

	// Issues lists soft resolution problems in the order they were found.
	Issues []Issue

	// FolderRoot is the synthetic folder hierarchy built from input-file
	// paths.
	FolderRoot *FolderNode
}

// OrderedInputFiles returns the input files in document order.
func (d *Document) OrderedInputFiles() []*InputFile {
	files := make([]*InputFile, 0, len(d.FileOrder))
	for _, id := range d.FileOrder {
		files = append(files, d.InputFiles[id])
	}
	return files
}

// OrderedComponents returns the live components in document order.
func (d *Document) OrderedComponents() []*ObjectComponent {
	comps := make([]*ObjectComponent, 0, len(d.ComponentOrder))
	for _, id := range d.ComponentOrder {
		comps = append(comps, d.Components[id])
	}
	return comps
}

// OrderedAreas returns the memory areas in document order.
func (d *Document) OrderedAreas() []*MemoryArea {
	areas := make([]*MemoryArea, 0, len(d.AreaOrder))
	for _, name := range d.AreaOrder {
		areas = append(areas, d.Areas[name])
	}
	return areas
}

// OrphanComponents returns the live components with no owning input file,
// in document order.
func (d *Document) OrphanComponents() []*ObjectComponent {
	var orphans []*ObjectComponent
	for _, id := range d.ComponentOrder {
		if c := d.Components[id]; c.File == nil {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

// TotalComponentSize returns the byte sum over all live components.
func (d *Document) TotalComponentSize() int64 {
	var total int64
	for _, id := range d.ComponentOrder {
		total += d.Components[id].SizeOrZero()
	}
	return total
}
