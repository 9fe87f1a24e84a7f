// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders resolved linkinfo documents into shareable
// artifacts: markdown size reports, GraphML and interactive HTML views
// of the reference graph, and an icicle plot of the folder hierarchy.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/petar-djukic/linkscope/pkg/types"
)

// Mode selects the top-level grouping of the markdown report.
type Mode string

const (
	// ModeInputFile groups components under their input files.
	ModeInputFile Mode = "input_file"
	// ModeMemoryArea groups logical groups under memory areas.
	ModeMemoryArea Mode = "memory_area"
)

// ErrUnsupportedMode reports a markdown mode outside the supported set.
var ErrUnsupportedMode = errors.New("unsupported markdown mode")

// Markdown renders the document as a markdown report in the given mode.
func Markdown(doc *types.Document, mode Mode) (string, error) {
	var b strings.Builder
	switch mode {
	case ModeInputFile:
		writeInputFileHierarchy(&b, doc)
	case ModeMemoryArea:
		writeMemoryAreaHierarchy(&b, doc)
	default:
		return "", fmt.Errorf("%w %q (supported: %q, %q)",
			ErrUnsupportedMode, mode, ModeInputFile, ModeMemoryArea)
	}
	return b.String(), nil
}

// sortBySizeThenName orders items by size descending, then by lower-cased
// name ascending. Full ties keep their input order.
func sortBySizeThenName[T any](items []T, size func(T) int64, name func(T) string) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := size(sorted[i]), size(sorted[j])
		if si != sj {
			return si > sj
		}
		return strings.ToLower(name(sorted[i])) < strings.ToLower(name(sorted[j]))
	})
	return sorted
}

func maxWidth(ss []string) int {
	w := 0
	for _, s := range ss {
		if len(s) > w {
			w = len(s)
		}
	}
	return w
}

// writeComponentBullets emits one aligned bullet per component. The slice
// must already be sorted.
func writeComponentBullets(b *strings.Builder, comps []*types.ObjectComponent, indent string) {
	names := make([]string, len(comps))
	sizes := make([]string, len(comps))
	for i, c := range comps {
		names[i] = c.DisplayName()
		sizes[i] = strconv.FormatInt(c.SizeOrZero(), 10)
	}
	nameW, sizeW := maxWidth(names), maxWidth(sizes)
	for i := range comps {
		fmt.Fprintf(b, "%s- %-*s  (size: %*s bytes)\n", indent, nameW, names[i], sizeW, sizes[i])
	}
}

func writeInputFileHierarchy(b *strings.Builder, doc *types.Document) {
	fmt.Fprintf(b, "# Input Files (%d, sorted by total size)\n\n", len(doc.InputFiles))
	fmt.Fprintf(b, "**Total size (all components): %d bytes**\n\n", doc.TotalComponentSize())

	if orphans := doc.OrphanComponents(); len(orphans) > 0 {
		sorted := sortBySizeThenName(orphans,
			(*types.ObjectComponent).SizeOrZero, (*types.ObjectComponent).DisplayName)
		var total int64
		for _, c := range sorted {
			total += c.SizeOrZero()
		}
		fmt.Fprintf(b, "## Components without Input File (total size: %d bytes)\n\n", total)
		writeComponentBullets(b, sorted, "")
		b.WriteString("\n")
	}

	files := sortBySizeThenName(doc.OrderedInputFiles(),
		(*types.InputFile).TotalSize, (*types.InputFile).DisplayName)

	names := make([]string, len(files))
	totals := make([]string, len(files))
	for i, f := range files {
		names[i] = f.DisplayName()
		totals[i] = strconv.FormatInt(f.TotalSize(), 10)
	}
	nameW, totalW := maxWidth(names), maxWidth(totals)

	for i, f := range files {
		fmt.Fprintf(b, "## %-*s (%d components, total size: %*s bytes)\n",
			nameW, names[i], len(f.Components), totalW, totals[i])
		if f.Path != "" {
			fmt.Fprintf(b, "**Path:** `%s`\n\n", f.Path)
		}
		comps := sortBySizeThenName(f.Components,
			(*types.ObjectComponent).SizeOrZero, (*types.ObjectComponent).DisplayName)
		if len(comps) == 0 {
			b.WriteString("_No components_\n")
		} else {
			writeComponentBullets(b, comps, "")
		}
		b.WriteString("\n")
	}
}

// commaOrQuestion renders an optional count with thousands separators,
// or "?" when the source document carried no value.
func commaOrQuestion(v *int64) string {
	if v == nil {
		return "?"
	}
	return humanize.Comma(*v)
}

func writeMemoryAreaHierarchy(b *strings.Builder, doc *types.Document) {
	b.WriteString("# Memory Areas\n\n")

	areas := sortBySizeThenName(doc.OrderedAreas(),
		(*types.MemoryArea).AccumulatedSize,
		func(a *types.MemoryArea) string { return a.Name })

	named := make([]*types.MemoryArea, 0, len(areas))
	for _, a := range areas {
		if a.Name != "" {
			named = append(named, a)
		}
	}

	names := make([]string, len(named))
	lengths := make([]string, len(named))
	useds := make([]string, len(named))
	for i, a := range named {
		names[i] = a.Name
		lengths[i] = commaOrQuestion(a.Length)
		useds[i] = commaOrQuestion(a.UsedSpace)
	}
	nameW, lengthW, usedW := maxWidth(names), maxWidth(lengths), maxWidth(useds)

	for i, area := range named {
		fmt.Fprintf(b, "## %-*s (length: %*s bytes, used: %*s bytes)\n\n",
			nameW, names[i], lengthW, lengths[i], usedW, useds[i])

		var groups []*types.LogicalGroup
		for _, u := range area.Usages {
			if u.Kind == types.UsageAllocated && u.Group != nil {
				groups = append(groups, u.Group)
			}
		}
		sorted := sortBySizeThenName(groups,
			(*types.LogicalGroup).AccumulatedSize, (*types.LogicalGroup).DisplayName)

		sizeW, groupNameW := groupWidths(sorted)
		for _, lg := range sorted {
			writeGroupHierarchy(b, lg, 3, "", sizeW, groupNameW)
		}
		b.WriteString("\n")
	}
}

// groupWidths returns the aligned size and name widths over sibling groups.
func groupWidths(groups []*types.LogicalGroup) (sizeW, nameW int) {
	sizes := make([]string, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		sizes[i] = strconv.FormatInt(g.AccumulatedSize(), 10)
		names[i] = g.DisplayName()
	}
	return maxWidth(sizes), maxWidth(names)
}

// writeGroupHierarchy renders one logical group as a heading at the given
// level, its components bucketed by input file, then its subgroups one
// heading level deeper and indented two more spaces.
func writeGroupHierarchy(b *strings.Builder, lg *types.LogicalGroup, level int, indent string, sizeW, nameW int) {
	heading := strings.Repeat("#", level)
	fmt.Fprintf(b, "%s%s %-*s (size: %*d bytes)\n",
		indent, heading, nameW, lg.DisplayName(), sizeW, lg.AccumulatedSize())

	type bucket struct {
		name  string
		comps []*types.ObjectComponent
	}
	index := make(map[string]int)
	var buckets []*bucket
	for _, comp := range lg.Components {
		name := "(no input file)"
		if comp.File != nil {
			name = comp.File.DisplayName()
		}
		i, ok := index[name]
		if !ok {
			i = len(buckets)
			index[name] = i
			buckets = append(buckets, &bucket{name: name})
		}
		buckets[i].comps = append(buckets[i].comps, comp)
	}

	bucketTotal := func(bk *bucket) int64 {
		var total int64
		for _, c := range bk.comps {
			total += c.SizeOrZero()
		}
		return total
	}
	sorted := sortBySizeThenName(buckets, bucketTotal, func(bk *bucket) string { return bk.name })

	bNames := make([]string, len(sorted))
	bTotals := make([]string, len(sorted))
	for i, bk := range sorted {
		bNames[i] = bk.name
		bTotals[i] = strconv.FormatInt(bucketTotal(bk), 10)
	}
	bNameW, bTotalW := maxWidth(bNames), maxWidth(bTotals)

	for i, bk := range sorted {
		// Padding sits outside the bold markers, so compute it by hand.
		pad := strings.Repeat(" ", bNameW-len(bk.name))
		fmt.Fprintf(b, "%s- **%s**%s (%d components, total: %*s bytes)\n",
			indent, bk.name, pad, len(bk.comps), bTotalW, bTotals[i])
		comps := sortBySizeThenName(bk.comps,
			(*types.ObjectComponent).SizeOrZero, (*types.ObjectComponent).DisplayName)
		writeComponentBullets(b, comps, indent+"  ")
	}

	subs := sortBySizeThenName(lg.Subgroups,
		(*types.LogicalGroup).AccumulatedSize, (*types.LogicalGroup).DisplayName)
	subSizeW, subNameW := groupWidths(subs)
	for _, sub := range subs {
		writeGroupHierarchy(b, sub, level+1, indent+"  ", subSizeW, subNameW)
	}
}
