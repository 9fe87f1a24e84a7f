// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package folder builds the synthetic folder hierarchy over input-file
// paths and provides the explicit compaction transform. The tree is built
// once by a single owner; compaction is never applied implicitly.
package folder

import (
	"github.com/petar-djukic/linkscope/internal/pathutil"
	"github.com/petar-djukic/linkscope/pkg/types"
)

// Build constructs the folder tree from a document's input files in
// document order. Files without a path, or whose path resolves to the
// root, attach directly to the root node.
func Build(doc *types.Document) *types.FolderNode {
	root := types.NewFolderNode("root", "/")
	for _, id := range doc.FileOrder {
		Add(root, doc.InputFiles[id])
	}
	return root
}

// Add places one input file into the tree, creating intermediate folders
// on demand. The filename itself never becomes a folder.
func Add(root *types.FolderNode, file *types.InputFile) {
	if file.Path == "" {
		root.Files[file.ID] = file
		return
	}

	parent := pathutil.Parent(file.Path)
	components := pathutil.Split(parent)
	if len(components) == 0 {
		root.Files[file.ID] = file
		return
	}

	current := root
	accumulated := ""
	for _, component := range components {
		if accumulated == "" {
			accumulated = component
		} else {
			accumulated = accumulated + "/" + component
		}
		child, ok := current.Children[component]
		if !ok {
			child = types.NewFolderNode(component, accumulated)
			current.Children[component] = child
		}
		current = child
	}
	current.Files[file.ID] = file
}

// Compact collapses single-child chains bottom-up, in place: while a node
// has exactly one child folder and no direct files, it merges with that
// child, joining names with "/" and adopting the child's path, children,
// and files. Every merge invalidates the node's size cache.
func Compact(node *types.FolderNode) *types.FolderNode {
	for name, child := range node.Children {
		node.Children[name] = Compact(child)
	}

	for len(node.Children) == 1 && len(node.Files) == 0 {
		var only *types.FolderNode
		for _, child := range node.Children {
			only = child
		}
		node.Name = node.Name + "/" + only.Name
		node.Path = only.Path
		node.Children = only.Children
		node.Files = only.Files
		node.InvalidateSizeCache()
	}
	return node
}

// Flatten returns every node in the tree keyed by its normalized path.
func Flatten(root *types.FolderNode) map[string]*types.FolderNode {
	result := make(map[string]*types.FolderNode)
	var walk func(*types.FolderNode)
	walk = func(node *types.FolderNode) {
		result[node.Path] = node
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(root)
	return result
}

// AllInputFiles returns every input file in the node and its descendants,
// keyed by id.
func AllInputFiles(node *types.FolderNode) map[string]*types.InputFile {
	result := make(map[string]*types.InputFile, len(node.Files))
	for id, f := range node.Files {
		result[id] = f
	}
	for _, child := range node.Children {
		for id, f := range AllInputFiles(child) {
			result[id] = f
		}
	}
	return result
}

// Depth returns the maximum depth below the node; a leaf has depth 0.
func Depth(node *types.FolderNode) int {
	max := -1
	for _, child := range node.Children {
		if d := Depth(child); d > max {
			max = d
		}
	}
	return max + 1
}
