// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolve turns raw linkinfo records into the live domain model.
// This is the second stage of the pipeline: it owns every cross-reference
// rule, the soft-issue taxonomy, and the one fatal structural check. It
// never logs; soft issues surface only through the returned document.
package resolve

import (
	"fmt"

	"github.com/petar-djukic/linkscope/internal/linkxml"
	"github.com/petar-djukic/linkscope/pkg/types"
)

// ErrUnknownLogicalGroup is returned when a logical group references a
// group id that exists nowhere in the document. Groups are the backbone
// of memory reporting, so resolution aborts instead of recording an
// issue. Other missing references stay soft; the asymmetry is deliberate.
var ErrUnknownLogicalGroup = fmt.Errorf("unknown logical group reference")

// Resolve builds a fully resolved document from raw records. Soft issues
// accumulate on the document in resolution order; a fatal structural
// failure returns an error and no document.
func Resolve(raw *linkxml.RawDocument) (*types.Document, error) {
	doc := &types.Document{
		InputFiles:     make(map[string]*types.InputFile, len(raw.InputFiles)),
		Components:     make(map[string]*types.ObjectComponent, len(raw.Components)),
		Groups:         make(map[string]*types.LogicalGroup, len(raw.Groups)),
		Areas:          make(map[string]*types.MemoryArea, len(raw.Areas)),
		FileOrder:      append([]string(nil), raw.FileOrder...),
		ComponentOrder: append([]string(nil), raw.ComponentOrder...),
		GroupOrder:     append([]string(nil), raw.GroupOrder...),
		AreaOrder:      append([]string(nil), raw.AreaOrder...),
		FilteredIDs:    make(map[string]struct{}, len(raw.FilteredIDs)),
	}
	for id := range raw.FilteredIDs {
		doc.FilteredIDs[id] = struct{}{}
	}

	for _, id := range raw.FileOrder {
		rf := raw.InputFiles[id]
		doc.InputFiles[id] = &types.InputFile{ID: rf.ID, Name: rf.Name, Path: rf.Path}
	}
	for _, id := range raw.ComponentOrder {
		rc := raw.Components[id]
		doc.Components[id] = &types.ObjectComponent{
			ID:            rc.ID,
			Name:          rc.Name,
			LoadAddress:   rc.LoadAddress,
			RunAddress:    rc.RunAddress,
			Size:          rc.Size,
			Alignment:     rc.Alignment,
			Readonly:      rc.Readonly,
			Executable:    rc.Executable,
			Value:         rc.Value,
			ReadOnlyRefs:  append([]string(nil), rc.ReadOnlyRefs...),
			ReadWriteRefs: append([]string(nil), rc.ReadWriteRefs...),
		}
	}
	// Group shells exist before contents resolve, so nested references
	// can point at any group regardless of document order.
	for _, id := range raw.GroupOrder {
		rg := raw.Groups[id]
		doc.Groups[id] = &types.LogicalGroup{ID: rg.ID, Name: rg.Name, Size: rg.Size}
	}

	resolveInputFileRefs(raw, doc)
	if err := resolveGroupContents(raw, doc); err != nil {
		return nil, err
	}
	resolveMemoryAreas(raw, doc)
	validateComponentRefs(doc)

	return doc, nil
}

// resolveInputFileRefs wires components to their owning input files,
// preserving document order in the file's component list. A missing
// target leaves the component orphaned and records an issue.
func resolveInputFileRefs(raw *linkxml.RawDocument, doc *types.Document) {
	for _, id := range doc.ComponentOrder {
		fileID := raw.Components[id].FileID
		if fileID == "" {
			continue
		}
		comp := doc.Components[id]
		file, ok := doc.InputFiles[fileID]
		if !ok {
			doc.Issues = append(doc.Issues, types.Issue{
				Code:    types.IssueMissingInputFileRef,
				Message: "ObjectComponent references missing InputFile",
				Context: map[string]string{
					"object_component_id": comp.ID,
					"input_file_id":       fileID,
				},
			})
			continue
		}
		comp.File = file
		file.Components = append(file.Components, comp)
	}
}

// resolveGroupContents fills group component lists and nested groups.
// References to filtered components are dropped silently; references to
// unknown components are dropped with an issue; a reference to an unknown
// group is fatal.
func resolveGroupContents(raw *linkxml.RawDocument, doc *types.Document) error {
	for _, id := range doc.GroupOrder {
		rg := raw.Groups[id]
		group := doc.Groups[id]

		for _, ref := range rg.ComponentRefs {
			if comp, ok := doc.Components[ref]; ok {
				group.Components = append(group.Components, comp)
				continue
			}
			if _, filtered := doc.FilteredIDs[ref]; filtered {
				continue
			}
			doc.Issues = append(doc.Issues, types.Issue{
				Code:    types.IssueMissingObjectComponent,
				Message: "LogicalGroup references missing ObjectComponent",
				Context: map[string]string{
					"logical_group_id":    group.ID,
					"object_component_id": ref,
				},
			})
		}

		for _, ref := range rg.GroupRefs {
			sub, ok := doc.Groups[ref]
			if !ok {
				return fmt.Errorf("%w: group %q references %q",
					ErrUnknownLogicalGroup, group.ID, ref)
			}
			group.Subgroups = append(group.Subgroups, sub)
		}
	}
	return nil
}

// resolveMemoryAreas builds areas and wires allocated spans to their
// groups. An unknown group id records an issue and leaves the span's
// group empty.
func resolveMemoryAreas(raw *linkxml.RawDocument, doc *types.Document) {
	for _, name := range doc.AreaOrder {
		ra := raw.Areas[name]
		area := &types.MemoryArea{
			Name:      ra.Name,
			Length:    ra.Length,
			UsedSpace: ra.UsedSpace,
		}
		for _, ru := range ra.Usages {
			usage := &types.MemoryUsage{
				Kind:         ru.Kind,
				StartAddress: ru.StartAddress,
				Size:         ru.Size,
			}
			if ru.GroupRef != "" {
				group, ok := doc.Groups[ru.GroupRef]
				if !ok {
					doc.Issues = append(doc.Issues, types.Issue{
						Code:    types.IssueMissingMemoryLogicalGroup,
						Message: "MemoryUsage references missing LogicalGroup",
						Context: map[string]string{
							"memory_area":      area.Name,
							"logical_group_id": ru.GroupRef,
						},
					})
				}
				usage.Group = group
			}
			area.Usages = append(area.Usages, usage)
		}
		doc.Areas[name] = area
	}
}

// validateComponentRefs checks every RO/RW reference without mutating
// anything: the id lists double as the raw edge input for the reference
// graph and are consumed as ids elsewhere.
func validateComponentRefs(doc *types.Document) {
	for _, id := range doc.ComponentOrder {
		comp := doc.Components[id]
		refs := make([]string, 0, len(comp.ReadOnlyRefs)+len(comp.ReadWriteRefs))
		refs = append(refs, comp.ReadOnlyRefs...)
		refs = append(refs, comp.ReadWriteRefs...)
		for _, ref := range refs {
			if _, ok := doc.Components[ref]; ok {
				continue
			}
			if _, filtered := doc.FilteredIDs[ref]; filtered {
				continue
			}
			doc.Issues = append(doc.Issues, types.Issue{
				Code:    types.IssueMissingObjectComponentRef,
				Message: "ObjectComponent references missing ObjectComponent in refd sections",
				Context: map[string]string{
					"object_component_id": comp.ID,
					"ref_id":              ref,
				},
			})
		}
	}
}
