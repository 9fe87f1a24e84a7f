// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// RefKind distinguishes read-only from read-write component references.
type RefKind string

const (
	RefRO RefKind = "RO" // Target is read
	RefRW RefKind = "RW" // Target is read and written
)

// NodeType categorizes a reference-graph node for presentation styling.
// The values appear verbatim in GraphML and DOT output.
type NodeType string

const (
	NodeInputFile       NodeType = "inputfile"
	NodeFolder          NodeType = "folder"
	NodeLinkerGenerated NodeType = "compiler_generated"
)

// Color returns the fixed presentation color for the node type.
func (t NodeType) Color() string {
	switch t {
	case NodeFolder:
		return "#7ED321"
	case NodeLinkerGenerated:
		return "#F5A623"
	default:
		return "#4A90E2"
	}
}

// LinkerGeneratedID is the id of the pseudo-node collecting components
// with no owning input file; LinkerGeneratedLabel is its display label.
const (
	LinkerGeneratedID    = "__LINKER_GENERATED__"
	LinkerGeneratedLabel = "LINKER_GENERATED"
)

// RefDetail is one component-level reference contributing to an
// aggregated edge.
type RefDetail struct {
	Source string  // Source component display name
	Target string  // Target component display name
	Kind   RefKind // RO or RW
}

// GraphNode is a reference-graph node: an input file, a folder group, or
// the linker-generated pseudo-node.
type GraphNode struct {
	ID    string   // Input-file id, folder path, or LinkerGeneratedID
	Label string   // Display label ("<name>\n<size> bytes")
	Size  int64    // Accumulated byte size (pseudo-node reports at least 1)
	Type  NodeType // Presentation category
	Color string   // Presentation color

	// Files holds the input files the node stands for: one file for an
	// inputfile node, every grouped file for a folder node, none for the
	// pseudo-node. Renderers use it to build hover details.
	Files []*InputFile
}

// GraphEdge aggregates every component-level reference between one
// ordered pair of nodes.
type GraphEdge struct {
	From    string      // Source node id
	To      string      // Target node id
	Details []RefDetail // Contributing references in document order
}

// ReferenceGraph is a directed graph over input files (or folder groups)
// with one edge per ordered node pair. Node insertion order is preserved
// so exports stay deterministic.
type ReferenceGraph struct {
	Nodes     map[string]*GraphNode
	NodeOrder []string
	Edges     []*GraphEdge
}

// Node returns the node with the given id, or nil.
func (g *ReferenceGraph) Node(id string) *GraphNode {
	return g.Nodes[id]
}

// OrderedNodes returns the nodes in insertion order.
func (g *ReferenceGraph) OrderedNodes() []*GraphNode {
	nodes := make([]*GraphNode, 0, len(g.NodeOrder))
	for _, id := range g.NodeOrder {
		nodes = append(nodes, g.Nodes[id])
	}
	return nodes
}
