// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/linkscope/pkg/types"
)

func TestComponentHoverFullAttributes(t *testing.T) {
	load, run := uint64(0x2000), uint64(0x3000)
	ro, ex := true, false
	c := &types.ObjectComponent{
		ID: "c1", Name: ".text", Size: i64(2048),
		LoadAddress: &load, RunAddress: &run,
		Readonly: &ro, Executable: &ex,
	}
	hover := componentHover(c)
	assert.Equal(t,
		"Component: .text<br>Size: 2.0 KiB<br>Load: 0x2000<br>Run: 0x3000<br>Read-only: true<br>Executable: false",
		hover)
}

func TestComponentHoverSkipsAbsent(t *testing.T) {
	c := &types.ObjectComponent{ID: "c1", Name: ".bss"}
	assert.Equal(t, "Component: .bss", componentHover(c))

	// A zero size is treated like an absent one.
	c.Size = i64(0)
	assert.Equal(t, "Component: .bss", componentHover(c))
}

func TestWriteIcicleHTML(t *testing.T) {
	doc := reportDoc()

	var buf bytes.Buffer
	require.NoError(t, WriteIcicleHTML(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, "plotly-2.35.2.min.js")
	assert.Contains(t, out, `"type":"icicle"`)
	assert.Contains(t, out, `"branchvalues":"total"`)
	assert.Contains(t, out, `"colorscale":"RdYlGn"`)
	assert.Contains(t, out, `"reversescale":true`)
	assert.Contains(t, out, `"cmid":`)
	assert.Contains(t, out, "Memory Usage Icicle Plot (Folder Structure)")

	// Row ids for every level of the hierarchy.
	assert.Contains(t, out, `"root"`)
	assert.Contains(t, out, `"file:fl-a"`)
	assert.Contains(t, out, `"comp:a1"`)
	assert.Contains(t, out, `"group:orphan_components"`)
	assert.Contains(t, out, "(no input file)")
}

func TestWriteIcicleHTMLCompactsFolders(t *testing.T) {
	// Both files live under src, so root and src merge into one label.
	doc := docWith([]*types.InputFile{
		newFile("fl-a", "alpha.o", "src/alpha.o", newComp("a1", ".text", 100)),
		newFile("fl-e", "empty.o", "src/empty.o"),
	})

	var buf bytes.Buffer
	require.NoError(t, WriteIcicleHTML(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, `"root/src"`)
	assert.NotContains(t, out, `"folder:src"`)
}

func TestWriteIcicleHTMLLeavesDocumentTreeAlone(t *testing.T) {
	doc := reportDoc()
	doc.FolderRoot = types.NewFolderNode("root", "")
	doc.FolderRoot.Children["keep"] = types.NewFolderNode("keep", "keep")

	var buf bytes.Buffer
	require.NoError(t, WriteIcicleHTML(&buf, doc))

	// The export works on its own compacted copy.
	_, ok := doc.FolderRoot.Children["keep"]
	assert.True(t, ok)
}

func TestWriteIcicleHTMLOrphanTopLevel(t *testing.T) {
	doc := docWith(nil, newComp("or1", ".cinit", 30))

	var buf bytes.Buffer
	require.NoError(t, WriteIcicleHTML(&buf, doc))
	out := buf.String()

	// Extract the parents array and confirm the orphan group sits at the
	// top level next to the root row.
	start := strings.Index(out, `"parents":[`)
	require.GreaterOrEqual(t, start, 0)
	end := strings.Index(out[start:], "]")
	parents := out[start : start+end+1]
	assert.Contains(t, parents, `""`)
	assert.Contains(t, out, `"group:orphan_components"`)
	assert.Contains(t, out, `"comp:or1"`)
}
