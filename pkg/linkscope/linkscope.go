// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package linkscope is the public facade for linkinfo.xml analysis.
// Construct an Analyzer from a document path, then query the resolved
// model or export reports. The internal parser and resolver are not
// part of the public surface; everything flows through this package and
// pkg/types.
package linkscope

import (
	"io"

	"github.com/petar-djukic/linkscope/internal/folder"
	"github.com/petar-djukic/linkscope/internal/linkxml"
	"github.com/petar-djukic/linkscope/internal/refgraph"
	"github.com/petar-djukic/linkscope/internal/resolve"
	"github.com/petar-djukic/linkscope/pkg/types"
)

// Config configures analysis. The zero value is usable.
type Config struct {
	// FilterDebug excludes components whose name marks a debug section
	// (".debug_" prefix) from the live model. References to filtered
	// components are dropped silently rather than reported.
	FilterDebug bool
}

// GraphOptions controls reference-graph derivation.
type GraphOptions struct {
	// FolderPaths lists folder prefixes whose input files collapse into
	// one node each. A file belongs to the first matching folder only.
	FolderPaths []string

	// MinSize drops ungrouped input files with total size at or below
	// the threshold from the node set.
	MinSize int64
}

// ReportMode selects the markdown report hierarchy.
type ReportMode string

const (
	// ReportInputFile groups components under their input files.
	ReportInputFile ReportMode = "input_file"
	// ReportMemoryArea groups logical groups under memory areas.
	ReportMemoryArea ReportMode = "memory_area"
)

// Analyzer holds one resolved linkinfo model. It is safe for concurrent
// reads once constructed; the folder tree must only be mutated through
// its single owner.
type Analyzer struct {
	doc *types.Document
}

// New parses and resolves the document at xmlPath and builds the folder
// hierarchy. A fatal parse or structural failure returns an error and
// no analyzer; soft issues are available through Issues.
func New(xmlPath string, cfg Config) (*Analyzer, error) {
	raw, err := linkxml.ParseFile(xmlPath, linkxml.Options{FilterDebug: cfg.FilterDebug})
	if err != nil {
		return nil, err
	}
	return fromRaw(raw)
}

// NewFromReader is New over an already-open document stream.
func NewFromReader(r io.Reader, cfg Config) (*Analyzer, error) {
	raw, err := linkxml.Parse(r, linkxml.Options{FilterDebug: cfg.FilterDebug})
	if err != nil {
		return nil, err
	}
	return fromRaw(raw)
}

func fromRaw(raw *linkxml.RawDocument) (*Analyzer, error) {
	doc, err := resolve.Resolve(raw)
	if err != nil {
		return nil, err
	}
	doc.FolderRoot = folder.Build(doc)
	return &Analyzer{doc: doc}, nil
}

// Document returns the resolved model. Consumers must treat it as
// read-only.
func (a *Analyzer) Document() *types.Document {
	return a.doc
}

// Issues returns the soft problems recorded during resolution, in the
// order they were found. An empty slice means a clean document.
func (a *Analyzer) Issues() []types.Issue {
	return a.doc.Issues
}

// FolderHierarchy returns the root of the input-file folder tree.
func (a *Analyzer) FolderHierarchy() *types.FolderNode {
	return a.doc.FolderRoot
}

// ReferenceGraph derives the aggregated RO/RW reference graph at
// input-file granularity, or folder granularity for the configured
// folder paths.
func (a *Analyzer) ReferenceGraph(opts GraphOptions) *types.ReferenceGraph {
	return refgraph.Build(a.doc, refgraph.Config{
		FolderPaths: opts.FolderPaths,
		MinSize:     opts.MinSize,
	})
}
