// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/petar-djukic/linkscope/pkg/types"
)

// visPage renders the reference graph as a standalone vis-network page.
// The data blobs are pre-marshaled JSON, injected as script values.
var visPage = template.Must(template.New("visgraph").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Input File Reference Graph</title>
<script src="https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"></script>
<style>
html, body { margin: 0; padding: 0; }
#network { width: 100%; height: 900px; border: 1px solid #ddd; }
</style>
</head>
<body>
<div id="network"></div>
<script>
const nodes = new vis.DataSet({{.Nodes}});
const edges = new vis.DataSet({{.Edges}});
const container = document.getElementById("network");
new vis.Network(container, {nodes: nodes, edges: edges}, {{.Options}});
</script>
</body>
</html>
`))

// visOptions mirrors the interactive defaults of the original viewer:
// node size scaling up to 60, Barnes-Hut physics with long springs, and
// the physics tuning panel enabled.
const visOptions = `{
  "nodes": {"scaling": {"min": 10, "max": 60}},
  "physics": {
    "solver": "barnesHut",
    "barnesHut": {
      "gravitationalConstant": -2000,
      "centralGravity": 0.3,
      "springLength": 500,
      "springConstant": 0.04,
      "damping": 0.3,
      "avoidOverlap": 0.5
    }
  },
  "configure": {"enabled": true, "filter": ["physics"]}
}`

type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int64  `json:"value"`
	Title string `json:"title"`
	Color string `json:"color"`
}

type visEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Title  string `json:"title"`
	Arrows string `json:"arrows"`
}

// WriteVisHTML renders the reference graph as an interactive HTML page.
// Node hover text lists the components (or grouped files) behind each
// node, edge hover text the component references behind each edge.
func WriteVisHTML(w io.Writer, doc *types.Document, rg *types.ReferenceGraph) error {
	nodes := make([]visNode, 0, len(rg.NodeOrder))
	for _, node := range rg.OrderedNodes() {
		nodes = append(nodes, visNode{
			ID:    node.ID,
			Label: node.Label,
			Value: node.Size,
			Title: nodeTooltip(doc, node),
			Color: node.Color,
		})
	}

	edges := make([]visEdge, 0, len(rg.Edges))
	for _, edge := range rg.Edges {
		lines := make([]string, len(edge.Details))
		for i, d := range edge.Details {
			lines[i] = fmt.Sprintf("%s  →  %s  (%s)", d.Source, d.Target, d.Kind)
		}
		edges = append(edges, visEdge{
			From:   edge.From,
			To:     edge.To,
			Title:  strings.Join(lines, "\n"),
			Arrows: "to",
		})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("marshaling nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("marshaling edges: %w", err)
	}

	data := struct {
		Nodes   template.JS
		Edges   template.JS
		Options template.JS
	}{
		Nodes:   template.JS(nodesJSON),
		Edges:   template.JS(edgesJSON),
		Options: template.JS(visOptions),
	}
	if err := visPage.Execute(w, data); err != nil {
		return fmt.Errorf("rendering graph html: %w", err)
	}
	return nil
}

// sortedOrphans returns components without an input file, largest first.
func sortedOrphans(doc *types.Document) []*types.ObjectComponent {
	orphans := doc.OrphanComponents()
	sort.SliceStable(orphans, func(i, j int) bool {
		return orphans[i].SizeOrZero() > orphans[j].SizeOrZero()
	})
	return orphans
}

// nodeTooltip builds the hover text for one graph node.
func nodeTooltip(doc *types.Document, node *types.GraphNode) string {
	var lines []string
	var comps []*types.ObjectComponent

	switch {
	case node.ID == types.LinkerGeneratedID:
		lines = append(lines, types.LinkerGeneratedLabel)
		comps = sortedOrphans(doc)

	case node.Type == types.NodeFolder:
		lines = append(lines, fmt.Sprintf("Folder: %s", node.ID))
		lines = append(lines, fmt.Sprintf("Input files (%d):\n", len(node.Files)))
		files := make([]*types.InputFile, len(node.Files))
		copy(files, node.Files)
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].TotalSize() > files[j].TotalSize()
		})
		for _, f := range files {
			lines = append(lines, fmt.Sprintf("  %s  (%d bytes)", f.DisplayName(), f.TotalSize()))
		}
		return strings.Join(lines, "\n")

	default:
		if len(node.Files) == 0 {
			return node.ID
		}
		f := node.Files[0]
		lines = append(lines, f.DisplayName())
		if f.Path != "" {
			lines = append(lines, fmt.Sprintf("Path: %s\n", f.Path))
		}
		comps = f.SortedComponents()
	}

	if len(comps) == 0 {
		lines = append(lines, "No components")
	}
	for _, c := range comps {
		lines = append(lines, fmt.Sprintf("%s  (size: %d)", c.DisplayName(), c.SizeOrZero()))
	}
	return strings.Join(lines, "\n")
}
