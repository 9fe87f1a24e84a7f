// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package linkxml reads a linker-generated linkinfo XML document into raw
// entity records. This is the first stage of the two-stage pipeline: all
// cross-references stay id strings here, and the optional debug filter is
// applied before resolution ever sees the data.
package linkxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrParse is returned when the document cannot be read or is not
// well-formed XML. No partial result accompanies it.
var ErrParse = fmt.Errorf("malformed linkinfo document")

// debugPrefix marks component names excluded by the debug filter.
const debugPrefix = ".debug_"

// Options controls ingestion behavior.
type Options struct {
	// FilterDebug excludes components whose name starts with ".debug_"
	// from the live component map, recording their ids instead.
	FilterDebug bool
}

// ParseFile reads and parses the linkinfo document at path.
func ParseFile(path string, opts Options) (*RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	raw, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}

// Parse decodes a linkinfo document from r. Missing container elements
// mean zero entities; only unreadable input or malformed XML is an error.
func Parse(r io.Reader, opts Options) (*RawDocument, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	raw := &RawDocument{
		InputFiles:  make(map[string]*RawInputFile),
		Components:  make(map[string]*RawComponent),
		Groups:      make(map[string]*RawGroup),
		Areas:       make(map[string]*RawArea),
		FilteredIDs: make(map[string]struct{}),
	}

	for _, f := range doc.InputFiles {
		if f.ID == "" {
			continue
		}
		if _, seen := raw.InputFiles[f.ID]; !seen {
			raw.FileOrder = append(raw.FileOrder, f.ID)
		}
		raw.InputFiles[f.ID] = &RawInputFile{
			ID:   f.ID,
			Name: text(f.Name),
			Path: text(f.Path),
		}
	}

	for _, c := range doc.Components {
		if c.ID == "" {
			continue
		}
		rc := &RawComponent{
			ID:          c.ID,
			Name:        text(c.Name),
			LoadAddress: hexUint(c.LoadAddress),
			RunAddress:  hexUint(c.RunAddress),
			Size:        hexInt(c.Size),
			Alignment:   hexInt(c.Alignment),
			Readonly:    boolText(c.Readonly),
			Executable:  boolText(c.Executable),
			Value:       text(c.Value),
		}
		if c.InputFileRef != nil {
			rc.FileID = c.InputFileRef.IDRef
		}
		for _, ref := range c.ReadOnlyRefs {
			rc.ReadOnlyRefs = append(rc.ReadOnlyRefs, ref.IDRef)
		}
		for _, ref := range c.ReadWriteRefs {
			rc.ReadWriteRefs = append(rc.ReadWriteRefs, ref.IDRef)
		}

		if opts.FilterDebug && strings.HasPrefix(rc.Name, debugPrefix) {
			raw.FilteredIDs[c.ID] = struct{}{}
			continue
		}

		if _, seen := raw.Components[c.ID]; !seen {
			raw.ComponentOrder = append(raw.ComponentOrder, c.ID)
		}
		raw.Components[c.ID] = rc
	}

	for _, g := range doc.Groups {
		if g.ID == "" {
			continue
		}
		rg := &RawGroup{
			ID:   g.ID,
			Name: text(g.Name),
			Size: hexInt(g.Size),
		}
		if g.Contents != nil {
			for _, ref := range g.Contents.Refs {
				if ref.IDRef == "" {
					continue
				}
				switch ref.XMLName.Local {
				case "object_component_ref":
					rg.ComponentRefs = append(rg.ComponentRefs, ref.IDRef)
				case "logical_group_ref":
					rg.GroupRefs = append(rg.GroupRefs, ref.IDRef)
				}
			}
		}
		if _, seen := raw.Groups[g.ID]; !seen {
			raw.GroupOrder = append(raw.GroupOrder, g.ID)
		}
		raw.Groups[g.ID] = rg
	}

	for _, a := range doc.Areas {
		name := text(a.Name)
		ra := &RawArea{
			Name:      name,
			Length:    hexInt(a.Length),
			UsedSpace: hexInt(a.UsedSpace),
		}
		if a.UsageDetails != nil {
			for _, span := range a.UsageDetails.Spans {
				ra.Usages = append(ra.Usages, rawUsage(span))
			}
		}
		// Unnamed areas cannot be keyed and are dropped.
		if name == "" {
			continue
		}
		if _, seen := raw.Areas[name]; !seen {
			raw.AreaOrder = append(raw.AreaOrder, name)
		}
		raw.Areas[name] = ra
	}

	return raw, nil
}

func rawUsage(span xmlUsage) RawUsage {
	kind := span.Kind
	if kind == "" {
		switch span.XMLName.Local {
		case "allocated_space":
			kind = "allocated"
		case "available_space":
			kind = "available"
		default:
			kind = span.XMLName.Local
		}
	}

	u := RawUsage{
		Kind:         kind,
		StartAddress: hexUint(span.StartAddress),
		Size:         hexInt(span.Size),
	}
	if span.GroupRef != nil {
		u.GroupRef = span.GroupRef.IDRef
	}
	return u
}

// xmlDocument and friends mirror the linkinfo element structure for
// encoding/xml. Scalar children decode as strings and are converted
// tolerantly afterwards.
type xmlDocument struct {
	InputFiles []xmlInputFile `xml:"input_file_list>input_file"`
	Components []xmlComponent `xml:"object_component_list>object_component"`
	Groups     []xmlGroup     `xml:"logical_group_list>logical_group"`
	Areas      []xmlArea      `xml:"placement_map>memory_area"`
}

type xmlInputFile struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name"`
	Path string `xml:"path"`
}

type xmlComponent struct {
	ID           string    `xml:"id,attr"`
	Name         string    `xml:"name"`
	LoadAddress  string    `xml:"load_address"`
	RunAddress   string    `xml:"run_address"`
	Size         string    `xml:"size"`
	Alignment    string    `xml:"alignment"`
	Readonly     string    `xml:"readonly"`
	Executable   string    `xml:"executable"`
	Value        string    `xml:"value"`
	InputFileRef *xmlIDRef `xml:"input_file_ref"`

	ReadOnlyRefs  []xmlIDRef `xml:"refd_ro_sections>object_component_ref"`
	ReadWriteRefs []xmlIDRef `xml:"refd_rw_sections>object_component_ref"`
}

type xmlIDRef struct {
	IDRef string `xml:"idref,attr"`
}

type xmlGroup struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name"`
	Size     string       `xml:"size"`
	Contents *xmlContents `xml:"contents"`
}

// xmlContents preserves the document order of mixed ref elements.
type xmlContents struct {
	Refs []xmlContentRef `xml:",any"`
}

type xmlContentRef struct {
	XMLName xml.Name
	IDRef   string `xml:"idref,attr"`
}

type xmlArea struct {
	Name         string           `xml:"name"`
	Length       string           `xml:"length"`
	UsedSpace    string           `xml:"used_space"`
	UsageDetails *xmlUsageDetails `xml:"usage_details"`
}

// xmlUsageDetails preserves the document order of allocated_space and
// available_space spans.
type xmlUsageDetails struct {
	Spans []xmlUsage `xml:",any"`
}

type xmlUsage struct {
	XMLName      xml.Name
	Kind         string    `xml:"kind,attr"`
	StartAddress string    `xml:"start_address"`
	Size         string    `xml:"size"`
	GroupRef     *xmlIDRef `xml:"logical_group_ref"`
}

// text trims a scalar child; the empty string means absent.
func text(s string) string {
	return strings.TrimSpace(s)
}

// hexUint parses hexadecimal text (optional 0x prefix) to an address.
// Unparseable or empty text is absent, never an error.
func hexUint(s string) *uint64 {
	s = normalizeHex(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return nil
	}
	return &v
}

// hexInt parses hexadecimal text to a byte count, tolerantly like hexUint.
func hexInt(s string) *int64 {
	s = normalizeHex(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return nil
	}
	return &v
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	return s
}

// boolText recognizes case-insensitive "true"/"1" and "false"/"0";
// anything else is absent.
func boolText(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}
