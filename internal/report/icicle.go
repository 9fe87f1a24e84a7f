// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/petar-djukic/linkscope/internal/folder"
	"github.com/petar-djukic/linkscope/pkg/types"
)

// iciclePage renders the folder hierarchy as a standalone plotly icicle
// plot: compacted folders at the bottom, input files above them, object
// components as leaves.
var iciclePage = template.Must(template.New("icicle").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Memory Usage Icicle Plot</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
html, body { margin: 0; padding: 0; }
#icicle { width: 100%; height: 100vh; }
</style>
</head>
<body>
<div id="icicle"></div>
<script>
Plotly.newPlot(document.getElementById("icicle"), [{{.Trace}}], {{.Layout}});
</script>
</body>
</html>
`))

type icicleMarker struct {
	Colorscale   string  `json:"colorscale"`
	Reversescale bool    `json:"reversescale"`
	CMid         float64 `json:"cmid"`
}

type icicleTrace struct {
	Type         string       `json:"type"`
	Labels       []string     `json:"labels"`
	Parents      []string     `json:"parents"`
	Values       []int64      `json:"values"`
	IDs          []string     `json:"ids"`
	BranchValues string       `json:"branchvalues"`
	Marker       icicleMarker `json:"marker"`
	Text         []string     `json:"text"`
	HoverText    []string     `json:"hovertext"`
	HoverInfo    string       `json:"hoverinfo"`
	TextPosition string       `json:"textposition"`
}

type icicleLayout struct {
	Title  icicleTitle  `json:"title"`
	Font   icicleFont   `json:"font"`
	Margin icicleMargin `json:"margin"`
}

type icicleTitle struct {
	Text string `json:"text"`
}

type icicleFont struct {
	Size int `json:"size"`
}

type icicleMargin struct {
	T int `json:"t"`
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
}

// icicleRows accumulates the parallel plotly arrays. Parent ids tie rows
// together; an empty parent makes a row top-level.
type icicleRows struct {
	labels  []string
	parents []string
	values  []int64
	ids     []string
	hovers  []string
}

func (r *icicleRows) add(label, parent string, value int64, id, hover string) {
	r.labels = append(r.labels, label)
	r.parents = append(r.parents, parent)
	r.values = append(r.values, value)
	r.ids = append(r.ids, id)
	r.hovers = append(r.hovers, hover)
}

// WriteIcicleHTML renders the document's folder hierarchy as an
// interactive icicle plot. A fresh folder tree is built and compacted
// for display, leaving doc.FolderRoot untouched. Components without an
// input file hang off a dedicated top-level group.
func WriteIcicleHTML(w io.Writer, doc *types.Document) error {
	root := folder.Compact(folder.Build(doc))

	rows := &icicleRows{}
	rootSize := root.AccumulatedSize()
	rows.add(root.Name, "", rootSize, "root",
		fmt.Sprintf("Root<br>Size: %s", byteSize(rootSize)))
	addFolderRows(rows, root, "root")

	orphans := sortedOrphans(doc)
	if len(orphans) > 0 {
		var total int64
		for _, c := range orphans {
			total += c.SizeOrZero()
		}
		const groupID = "group:orphan_components"
		rows.add("(no input file)", "", total, groupID,
			fmt.Sprintf("No Input File Components<br>Size: %s", byteSize(total)))
		for _, c := range orphans {
			rows.add(c.DisplayName(), groupID, c.SizeOrZero(), "comp:"+c.ID, componentHover(c))
		}
	}

	trace := icicleTrace{
		Type:         "icicle",
		Labels:       rows.labels,
		Parents:      rows.parents,
		Values:       rows.values,
		IDs:          rows.ids,
		BranchValues: "total",
		Marker: icicleMarker{
			// Red-yellow-green with high values red, centered on the mean.
			Colorscale:   "RdYlGn",
			Reversescale: true,
			CMid:         meanValue(rows.values),
		},
		Text:         rows.hovers,
		HoverText:    rows.hovers,
		HoverInfo:    "label+text+value",
		TextPosition: "middle center",
	}
	layout := icicleLayout{
		Title:  icicleTitle{Text: "Memory Usage Icicle Plot (Folder Structure)"},
		Font:   icicleFont{Size: 12},
		Margin: icicleMargin{T: 50, L: 10, R: 10, B: 10},
	}

	traceJSON, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("marshaling icicle trace: %w", err)
	}
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshaling icicle layout: %w", err)
	}

	data := struct {
		Trace  template.JS
		Layout template.JS
	}{
		Trace:  template.JS(traceJSON),
		Layout: template.JS(layoutJSON),
	}
	if err := iciclePage.Execute(w, data); err != nil {
		return fmt.Errorf("rendering icicle html: %w", err)
	}
	return nil
}

// addFolderRows emits the files directly in the folder, then recurses
// into subfolders.
func addFolderRows(rows *icicleRows, node *types.FolderNode, parentID string) {
	for _, f := range node.SortedFiles() {
		addFileRows(rows, f, parentID)
	}
	for _, child := range node.SortedChildren() {
		id := "folder:" + child.Path
		size := child.AccumulatedSize()
		rows.add(child.Name, parentID, size, id,
			fmt.Sprintf("Folder: %s<br>Size: %s", child.Path, byteSize(size)))
		addFolderRows(rows, child, id)
	}
}

func addFileRows(rows *icicleRows, f *types.InputFile, parentID string) {
	id := "file:" + f.ID
	size := f.TotalSize()
	rows.add(f.DisplayName(), parentID, size, id,
		fmt.Sprintf("File: %s<br>Size: %s", f.Name, byteSize(size)))
	for _, c := range f.SortedComponents() {
		rows.add(c.DisplayName(), id, c.SizeOrZero(), "comp:"+c.ID, componentHover(c))
	}
}

// componentHover lists the component's attributes, skipping absent ones.
func componentHover(c *types.ObjectComponent) string {
	out := fmt.Sprintf("Component: %s", c.DisplayName())
	if c.SizeOrZero() != 0 {
		out += fmt.Sprintf("<br>Size: %s", byteSize(c.SizeOrZero()))
	}
	if c.LoadAddress != nil {
		out += fmt.Sprintf("<br>Load: 0x%x", *c.LoadAddress)
	}
	if c.RunAddress != nil {
		out += fmt.Sprintf("<br>Run: 0x%x", *c.RunAddress)
	}
	if c.Readonly != nil {
		out += fmt.Sprintf("<br>Read-only: %t", *c.Readonly)
	}
	if c.Executable != nil {
		out += fmt.Sprintf("<br>Executable: %t", *c.Executable)
	}
	return out
}

// byteSize formats a byte count for hover text, e.g. "1.5 KiB".
func byteSize(v int64) string {
	if v < 0 {
		return fmt.Sprintf("%d B", v)
	}
	return humanize.IBytes(uint64(v))
}

func meanValue(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
