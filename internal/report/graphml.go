// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/petar-djukic/linkscope/pkg/types"
)

const graphmlNamespace = "http://graphml.graphdrawing.org/xmlns"

// GraphML attribute keys. Edge details are flattened to one string since
// GraphML has no list-valued attributes.
const (
	keyLabel    = "d0"
	keySize     = "d1"
	keyColor    = "d2"
	keyNodeType = "d3"
	keyDetails  = "d4"
)

type graphmlFile struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML serializes the reference graph as GraphML for external
// graph tools. Nodes carry label, size, color and node_type attributes;
// edges carry their contributing references as one details string.
func WriteGraphML(w io.Writer, rg *types.ReferenceGraph) error {
	file := graphmlFile{
		Xmlns: graphmlNamespace,
		Keys: []graphmlKey{
			{ID: keyLabel, For: "node", AttrName: "label", AttrType: "string"},
			{ID: keySize, For: "node", AttrName: "size", AttrType: "long"},
			{ID: keyColor, For: "node", AttrName: "color", AttrType: "string"},
			{ID: keyNodeType, For: "node", AttrName: "node_type", AttrType: "string"},
			{ID: keyDetails, For: "edge", AttrName: "details", AttrType: "string"},
		},
		Graph: graphmlGraph{EdgeDefault: "directed"},
	}

	for _, node := range rg.OrderedNodes() {
		file.Graph.Nodes = append(file.Graph.Nodes, graphmlNode{
			ID: node.ID,
			Data: []graphmlData{
				{Key: keyLabel, Value: node.Label},
				{Key: keySize, Value: strconv.FormatInt(node.Size, 10)},
				{Key: keyColor, Value: node.Color},
				{Key: keyNodeType, Value: string(node.Type)},
			},
		})
	}

	for _, edge := range rg.Edges {
		file.Graph.Edges = append(file.Graph.Edges, graphmlEdge{
			Source: edge.From,
			Target: edge.To,
			Data: []graphmlData{
				{Key: keyDetails, Value: detailsString(edge.Details)},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing graphml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encoding graphml: %w", err)
	}
	return nil
}

// detailsString flattens edge details to `src → dst (kind)` entries
// joined by "; ".
func detailsString(details []types.RefDetail) string {
	parts := make([]string, len(details))
	for i, d := range details {
		parts[i] = fmt.Sprintf("%s → %s (%s)", d.Source, d.Target, d.Kind)
	}
	return strings.Join(parts, "; ")
}
