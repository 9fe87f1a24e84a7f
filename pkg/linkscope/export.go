// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package linkscope

import (
	"bytes"
	"io"

	"github.com/petar-djukic/linkscope/internal/refgraph"
	"github.com/petar-djukic/linkscope/internal/report"
)

// WriteMarkdown renders the size report in the given mode to w.
func (a *Analyzer) WriteMarkdown(w io.Writer, mode ReportMode) error {
	md, err := report.Markdown(a.doc, report.Mode(mode))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, md)
	return err
}

// ExportMarkdown writes the size report to path atomically.
func (a *Analyzer) ExportMarkdown(path string, mode ReportMode) error {
	return a.exportFile(path, func(w io.Writer) error {
		return a.WriteMarkdown(w, mode)
	})
}

// WriteGraphHTML renders the reference graph as a self-contained
// interactive HTML page to w.
func (a *Analyzer) WriteGraphHTML(w io.Writer, opts GraphOptions) error {
	return report.WriteVisHTML(w, a.doc, a.ReferenceGraph(opts))
}

// ExportGraphHTML writes the interactive graph page to path atomically.
func (a *Analyzer) ExportGraphHTML(path string, opts GraphOptions) error {
	return a.exportFile(path, func(w io.Writer) error {
		return a.WriteGraphHTML(w, opts)
	})
}

// WriteGraphML renders the reference graph as GraphML to w, for tools
// like Gephi or yEd.
func (a *Analyzer) WriteGraphML(w io.Writer, opts GraphOptions) error {
	return report.WriteGraphML(w, a.ReferenceGraph(opts))
}

// ExportGraphML writes the GraphML document to path atomically.
func (a *Analyzer) ExportGraphML(path string, opts GraphOptions) error {
	return a.exportFile(path, func(w io.Writer) error {
		return a.WriteGraphML(w, opts)
	})
}

// WriteGraphDOT renders the reference graph in Graphviz DOT format to
// w.
func (a *Analyzer) WriteGraphDOT(w io.Writer, opts GraphOptions) error {
	return refgraph.WriteDOT(a.ReferenceGraph(opts), w)
}

// ExportGraphDOT writes the DOT document to path atomically.
func (a *Analyzer) ExportGraphDOT(path string, opts GraphOptions) error {
	return a.exportFile(path, func(w io.Writer) error {
		return a.WriteGraphDOT(w, opts)
	})
}

// WriteIcicleHTML renders the folder-hierarchy icicle plot as a
// self-contained HTML page to w. The plot uses a compacted copy of the
// folder tree; the analyzer's published tree is untouched.
func (a *Analyzer) WriteIcicleHTML(w io.Writer) error {
	return report.WriteIcicleHTML(w, a.doc)
}

// ExportIcicleHTML writes the icicle page to path atomically.
func (a *Analyzer) ExportIcicleHTML(path string) error {
	return a.exportFile(path, func(w io.Writer) error {
		return a.WriteIcicleHTML(w)
	})
}

// exportFile renders through write into a buffer, then lands the bytes
// atomically so a render failure never truncates an existing artifact.
func (a *Analyzer) exportFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return report.WriteFile(path, buf.Bytes())
}
