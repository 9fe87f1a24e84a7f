// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package refgraph derives a directed reference graph between input
// files from resolved component cross-references. Component-level RO/RW
// references are aggregated into one edge per ordered node pair, and
// input files can optionally be collapsed into folder nodes.
package refgraph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/petar-djukic/linkscope/pkg/types"
)

// Config controls graph derivation.
type Config struct {
	// FolderPaths lists folder prefixes whose input files are collapsed
	// into a single node each. Paths may use either slash style; matching
	// is done against the full input-file path. A file belongs to at most
	// one folder: the first match in FolderPaths order wins.
	FolderPaths []string

	// MinSize drops ungrouped input files whose total component size is
	// at or below the threshold. The zero value drops empty files.
	MinSize int64
}

// mapping associates input files with their configured folder group.
type mapping struct {
	byFolder    map[string][]*types.InputFile
	folderOrder []string
	fileFolder  map[string]string
}

// Build derives the aggregated reference graph for a resolved document.
// Folder nodes come first, then ungrouped input files above the size
// threshold, then the pseudo-node collecting components that have no
// owning input file. The pseudo-node is always present.
func Build(doc *types.Document, cfg Config) *types.ReferenceGraph {
	rg := &types.ReferenceGraph{Nodes: make(map[string]*types.GraphNode)}
	m := buildMapping(doc, cfg.FolderPaths)
	addNodes(rg, doc, m, cfg.MinSize)
	addEdges(rg, doc, m)
	return rg
}

// normalizeFolder rewrites a path to forward slashes with no trailing
// slash.
func normalizeFolder(path string) string {
	return strings.TrimRight(strings.ReplaceAll(path, "\\", "/"), "/")
}

func buildMapping(doc *types.Document, folderPaths []string) mapping {
	m := mapping{
		byFolder:   make(map[string][]*types.InputFile),
		fileFolder: make(map[string]string),
	}
	if len(folderPaths) == 0 {
		return m
	}

	folders := make([]string, 0, len(folderPaths))
	for _, fp := range folderPaths {
		folders = append(folders, normalizeFolder(fp))
	}

	for _, file := range doc.OrderedInputFiles() {
		if file.Path == "" {
			continue
		}
		path := normalizeFolder(file.Path)
		for _, folder := range folders {
			if path != folder && !strings.HasPrefix(path, folder+"/") {
				continue
			}
			if _, ok := m.byFolder[folder]; !ok {
				m.folderOrder = append(m.folderOrder, folder)
			}
			m.byFolder[folder] = append(m.byFolder[folder], file)
			m.fileFolder[file.ID] = folder
			break
		}
	}
	return m
}

func addNode(rg *types.ReferenceGraph, node *types.GraphNode) {
	if _, ok := rg.Nodes[node.ID]; !ok {
		rg.NodeOrder = append(rg.NodeOrder, node.ID)
	}
	rg.Nodes[node.ID] = node
}

func addNodes(rg *types.ReferenceGraph, doc *types.Document, m mapping, minSize int64) {
	for _, folder := range m.folderOrder {
		files := m.byFolder[folder]
		var total int64
		for _, f := range files {
			total += f.TotalSize()
		}
		addNode(rg, &types.GraphNode{
			ID:    folder,
			Label: fmt.Sprintf("%s\n%d bytes", folder, total),
			Size:  total,
			Type:  types.NodeFolder,
			Color: types.NodeFolder.Color(),
			Files: files,
		})
	}

	for _, file := range doc.OrderedInputFiles() {
		if _, grouped := m.fileFolder[file.ID]; grouped {
			continue
		}
		total := file.TotalSize()
		if total <= minSize {
			continue
		}
		addNode(rg, &types.GraphNode{
			ID:    file.ID,
			Label: fmt.Sprintf("%s\n%d bytes", file.Name, total),
			Size:  total,
			Type:  types.NodeInputFile,
			Color: types.NodeInputFile.Color(),
			Files: []*types.InputFile{file},
		})
	}

	var orphanTotal int64
	for _, comp := range doc.OrphanComponents() {
		orphanTotal += comp.SizeOrZero()
	}
	size := orphanTotal
	if size <= 0 {
		size = 1
	}
	addNode(rg, &types.GraphNode{
		ID:    types.LinkerGeneratedID,
		Label: fmt.Sprintf("%s\n%d bytes", types.LinkerGeneratedLabel, orphanTotal),
		Size:  size,
		Type:  types.NodeLinkerGenerated,
		Color: types.NodeLinkerGenerated.Color(),
	})
}

// nodeID maps a component to the graph node that stands for it.
func nodeID(comp *types.ObjectComponent, m mapping) string {
	if comp.File == nil {
		return types.LinkerGeneratedID
	}
	if folder, ok := m.fileFolder[comp.File.ID]; ok {
		return folder
	}
	return comp.File.ID
}

type edgeKey struct {
	from string
	to   string
}

func addEdges(rg *types.ReferenceGraph, doc *types.Document, m mapping) {
	agg := make(map[edgeKey][]types.RefDetail)
	var order []edgeKey

	collect := func(comp *types.ObjectComponent, src string, refs []string, kind types.RefKind) {
		for _, ref := range refs {
			target, ok := doc.Components[ref]
			if !ok {
				// Filtered or unresolved target, contributes nothing.
				continue
			}
			dst := nodeID(target, m)
			if src == dst {
				continue
			}
			key := edgeKey{from: src, to: dst}
			if _, seen := agg[key]; !seen {
				order = append(order, key)
			}
			agg[key] = append(agg[key], types.RefDetail{
				Source: comp.DisplayName(),
				Target: target.DisplayName(),
				Kind:   kind,
			})
		}
	}

	for _, comp := range doc.OrderedComponents() {
		src := nodeID(comp, m)
		collect(comp, src, comp.ReadOnlyRefs, types.RefRO)
		collect(comp, src, comp.ReadWriteRefs, types.RefRW)
	}

	for _, key := range order {
		// Endpoints may have been dropped by the size threshold.
		if rg.Nodes[key.from] == nil || rg.Nodes[key.to] == nil {
			continue
		}
		rg.Edges = append(rg.Edges, &types.GraphEdge{
			From:    key.from,
			To:      key.to,
			Details: agg[key],
		})
	}
}

// ToGraph materializes the reference graph as a directed
// dominikbraun/graph value with presentation attributes attached to
// every vertex and edge.
func ToGraph(rg *types.ReferenceGraph) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())

	for _, node := range rg.OrderedNodes() {
		err := g.AddVertex(node.ID,
			graph.VertexAttribute("label", dotEscape(node.Label)),
			graph.VertexAttribute("node_type", string(node.Type)),
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", node.Color),
			graph.VertexAttribute("size", strconv.FormatInt(node.Size, 10)),
		)
		if err != nil {
			return nil, fmt.Errorf("adding node %q: %w", node.ID, err)
		}
	}

	for _, edge := range rg.Edges {
		err := g.AddEdge(edge.From, edge.To,
			graph.EdgeAttribute("label", strconv.Itoa(len(edge.Details))),
		)
		if err != nil {
			return nil, fmt.Errorf("adding edge %s -> %s: %w", edge.From, edge.To, err)
		}
	}
	return g, nil
}

// WriteDOT renders the reference graph in Graphviz DOT format.
func WriteDOT(rg *types.ReferenceGraph, w io.Writer) error {
	g, err := ToGraph(rg)
	if err != nil {
		return err
	}
	if err := draw.DOT(g, w); err != nil {
		return fmt.Errorf("rendering dot: %w", err)
	}
	return nil
}

// dotEscape keeps multi-line labels on one source line in DOT output.
func dotEscape(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
