// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package linkxml

// RawDocument is the stage-1 output of ingestion: every entity as parsed,
// with all cross-references still opaque id strings. Nothing in here
// points at another entity; resolution turns a RawDocument into a
// types.Document.
type RawDocument struct {
	InputFiles map[string]*RawInputFile
	Components map[string]*RawComponent
	Groups     map[string]*RawGroup
	Areas      map[string]*RawArea

	FileOrder      []string // Input-file ids in document order
	ComponentOrder []string // Live component ids in document order
	GroupOrder     []string // Group ids in document order
	AreaOrder      []string // Area names in document order

	// FilteredIDs holds component ids excluded by the debug filter before
	// any resolution, so the resolver can tell a reference to a filtered
	// section from a reference to nothing.
	FilteredIDs map[string]struct{}
}

// RawInputFile mirrors one input_file element.
type RawInputFile struct {
	ID   string
	Name string
	Path string
}

// RawComponent mirrors one object_component element. FileID and the two
// reference lists are unresolved ids.
type RawComponent struct {
	ID          string
	Name        string
	LoadAddress *uint64
	RunAddress  *uint64
	Size        *int64
	Alignment   *int64
	Readonly    *bool
	Executable  *bool
	Value       string

	FileID        string
	ReadOnlyRefs  []string
	ReadWriteRefs []string
}

// RawGroup mirrors one logical_group element with its ordered contents.
type RawGroup struct {
	ID            string
	Name          string
	Size          *int64
	ComponentRefs []string
	GroupRefs     []string
}

// RawArea mirrors one memory_area element.
type RawArea struct {
	Name      string
	Length    *int64
	UsedSpace *int64
	Usages    []RawUsage
}

// RawUsage mirrors one allocated_space/available_space span. GroupRef is
// the unresolved logical-group id, empty when absent.
type RawUsage struct {
	Kind         string
	StartAddress *uint64
	Size         *int64
	GroupRef     string
}
