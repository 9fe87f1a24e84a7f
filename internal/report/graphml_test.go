// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/linkscope/pkg/types"
)

func sampleGraph() *types.ReferenceGraph {
	nodes := []*types.GraphNode{
		{ID: "fl-a", Label: "a.o\n150 bytes", Size: 150, Type: types.NodeInputFile, Color: "#4A90E2"},
		{ID: "fl-b", Label: "b.o\n200 bytes", Size: 200, Type: types.NodeInputFile, Color: "#4A90E2"},
		{ID: types.LinkerGeneratedID, Label: "LINKER_GENERATED\n0 bytes", Size: 1,
			Type: types.NodeLinkerGenerated, Color: "#F5A623"},
	}
	rg := &types.ReferenceGraph{Nodes: make(map[string]*types.GraphNode)}
	for _, n := range nodes {
		rg.Nodes[n.ID] = n
		rg.NodeOrder = append(rg.NodeOrder, n.ID)
	}
	rg.Edges = []*types.GraphEdge{
		{From: "fl-a", To: "fl-b", Details: []types.RefDetail{
			{Source: ".text", Target: ".rodata", Kind: types.RefRO},
			{Source: ".data", Target: ".bss", Kind: types.RefRW},
		}},
	}
	return rg
}

func TestWriteGraphML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGraphML(&buf, sampleGraph()))
	out := buf.String()

	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `xmlns="http://graphml.graphdrawing.org/xmlns"`)
	assert.Contains(t, out, `edgedefault="directed"`)
	assert.Contains(t, out, `attr.name="label"`)
	assert.Contains(t, out, `attr.name="details"`)
	assert.Contains(t, out, `<node id="fl-a">`)
	assert.Contains(t, out, `<edge source="fl-a" target="fl-b">`)
}

func TestWriteGraphMLRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGraphML(&buf, sampleGraph()))

	var decoded graphmlFile
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Graph.Nodes, 3)
	require.Len(t, decoded.Graph.Edges, 1)

	node := decoded.Graph.Nodes[0]
	assert.Equal(t, "fl-a", node.ID)
	byKey := make(map[string]string)
	for _, d := range node.Data {
		byKey[d.Key] = d.Value
	}
	assert.Equal(t, "a.o\n150 bytes", byKey[keyLabel])
	assert.Equal(t, "150", byKey[keySize])
	assert.Equal(t, "inputfile", byKey[keyNodeType])

	edge := decoded.Graph.Edges[0]
	require.Len(t, edge.Data, 1)
	assert.Equal(t, ".text → .rodata (RO); .data → .bss (RW)", edge.Data[0].Value)
}
