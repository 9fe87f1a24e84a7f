// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"sort"
	"strings"
)

// FolderNode is a synthetic folder in the input-file hierarchy, built
// post-hoc from input-file paths; it does not exist in the source XML.
type FolderNode struct {
	Name     string                 // Folder name; compaction joins names with "/"
	Path     string                 // Normalized folder path, no leading slash
	Children map[string]*FolderNode // Subfolders keyed by immediate name component
	Files    map[string]*InputFile  // Input files directly in this folder, keyed by id

	cachedSize int64
	sizeValid  bool
}

// NewFolderNode returns a folder node with initialized child maps.
func NewFolderNode(name, path string) *FolderNode {
	return &FolderNode{
		Name:     name,
		Path:     path,
		Children: make(map[string]*FolderNode),
		Files:    make(map[string]*InputFile),
	}
}

// AccumulatedSize returns the byte sum over all input files in this folder
// and every descendant folder. The result is cached; mutating the tree
// outside the builder's own compaction requires InvalidateSizeCache.
func (n *FolderNode) AccumulatedSize() int64 {
	if !n.sizeValid {
		var total int64
		for _, f := range n.Files {
			total += f.TotalSize()
		}
		for _, child := range n.Children {
			total += child.AccumulatedSize()
		}
		n.cachedSize = total
		n.sizeValid = true
	}
	return n.cachedSize
}

// InvalidateSizeCache drops this node's cached accumulated size.
func (n *FolderNode) InvalidateSizeCache() {
	n.sizeValid = false
}

// SortedChildren returns the subfolders sorted by name. Maps carry no
// order, so renderers iterate this for deterministic output.
func (n *FolderNode) SortedChildren() []*FolderNode {
	children := make([]*FolderNode, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name < children[j].Name
	})
	return children
}

// SortedFiles returns the directly contained input files sorted by total
// size descending, ties broken by lower-cased display name then id.
func (n *FolderNode) SortedFiles() []*InputFile {
	files := make([]*InputFile, 0, len(n.Files))
	for _, f := range n.Files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		si, sj := files[i].TotalSize(), files[j].TotalSize()
		if si != sj {
			return si > sj
		}
		ni, nj := strings.ToLower(files[i].DisplayName()), strings.ToLower(files[j].DisplayName())
		if ni != nj {
			return ni < nj
		}
		return files[i].ID < files[j].ID
	})
	return files
}
