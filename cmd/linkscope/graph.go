// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/linkscope/pkg/linkscope"
)

// groupingFile is the YAML shape accepted by --groups: folder paths to
// collapse into single nodes and the minimum size for ungrouped files.
type groupingFile struct {
	Folders []string `yaml:"folders"`
	MinSize int64    `yaml:"min_size"`
}

// newGraphCmd creates the "graph" command.
func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <linkinfo.xml>",
		Short: "Export the input-file reference graph",
		Long: "Graph derives the aggregated RO/RW reference graph between input files\n" +
			"(optionally collapsed into folder nodes) and exports it as interactive\n" +
			"HTML, GraphML, or Graphviz DOT.",
		Args: cobra.ExactArgs(1),
		RunE: runGraph,
	}

	cmd.Flags().StringP("format", "f", "html", "Output format: html, graphml, or dot")
	cmd.Flags().StringP("out", "o", "", "Output file (default linkscope_graph.<ext>)")
	cmd.Flags().StringArray("folder", nil, "Folder path to collapse into one node (repeatable)")
	cmd.Flags().String("groups", "", "YAML file with folders and min_size")
	cmd.Flags().Int64("min-size", 0, "Drop ungrouped files at or below this size in bytes")

	return cmd
}

// runGraph derives the graph and dispatches on the output format.
func runGraph(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	opts, err := graphOptions(cmd)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(args[0])
	if err != nil {
		return err
	}

	var export func(path string) error
	var ext string
	switch format {
	case "html":
		export = func(p string) error { return analyzer.ExportGraphHTML(p, opts) }
		ext = "html"
	case "graphml":
		export = func(p string) error { return analyzer.ExportGraphML(p, opts) }
		ext = "graphml"
	case "dot":
		export = func(p string) error { return analyzer.ExportGraphDOT(p, opts) }
		ext = "gv"
	default:
		return fmt.Errorf("unsupported format %q (supported: html, graphml, dot)", format)
	}

	if out == "" {
		out = "linkscope_graph." + ext
	}
	if err := export(out); err != nil {
		return err
	}

	g := analyzer.ReferenceGraph(opts)
	slog.Info("graph written",
		"path", out,
		"format", format,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
	)
	return nil
}

// graphOptions merges the grouping file, if any, with the command-line
// flags. Flags win: --folder entries are appended after the file's
// folders, and an explicit --min-size overrides the file's value.
func graphOptions(cmd *cobra.Command) (linkscope.GraphOptions, error) {
	var opts linkscope.GraphOptions

	if groupsPath, _ := cmd.Flags().GetString("groups"); groupsPath != "" {
		data, err := os.ReadFile(groupsPath)
		if err != nil {
			return opts, fmt.Errorf("reading groups file: %w", err)
		}
		var gf groupingFile
		if err := yaml.Unmarshal(data, &gf); err != nil {
			return opts, fmt.Errorf("parsing groups file %s: %w", groupsPath, err)
		}
		opts.FolderPaths = gf.Folders
		opts.MinSize = gf.MinSize
	}

	folders, _ := cmd.Flags().GetStringArray("folder")
	opts.FolderPaths = append(opts.FolderPaths, folders...)

	if cmd.Flags().Changed("min-size") {
		opts.MinSize, _ = cmd.Flags().GetInt64("min-size")
	}
	return opts, nil
}
