// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/linkscope/pkg/linkscope"
)

// newReportCmd creates the "report" command.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <linkinfo.xml>",
		Short: "Write a markdown size report",
		Long: "Report renders the resolved model as a hierarchical markdown size report,\n" +
			"grouped by input file or by memory area.",
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().String("mode", "input_file", "Report hierarchy: input_file or memory_area")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")

	return cmd
}

// runReport builds the analyzer and writes the report.
func runReport(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	out, _ := cmd.Flags().GetString("out")

	analyzer, err := newAnalyzer(args[0])
	if err != nil {
		return err
	}

	if out == "" {
		return analyzer.WriteMarkdown(cmd.OutOrStdout(), linkscope.ReportMode(mode))
	}
	if err := analyzer.ExportMarkdown(out, linkscope.ReportMode(mode)); err != nil {
		return err
	}
	slog.Info("report written", "path", out, "mode", mode)
	return nil
}

// newAnalyzer parses one document with the shared flags applied and
// logs the resolved model summary.
func newAnalyzer(xmlPath string) (*linkscope.Analyzer, error) {
	if _, err := os.Stat(xmlPath); err != nil {
		return nil, fmt.Errorf("reading %s: %w", xmlPath, err)
	}

	analyzer, err := linkscope.New(xmlPath, linkscope.Config{
		FilterDebug: viper.GetBool("filter-debug"),
	})
	if err != nil {
		return nil, err
	}

	doc := analyzer.Document()
	slog.Info("document resolved",
		"input_files", len(doc.InputFiles),
		"components", len(doc.Components),
		"logical_groups", len(doc.Groups),
		"memory_areas", len(doc.Areas),
		"filtered", len(doc.FilteredIDs),
		"total_size", humanize.IBytes(uint64(doc.TotalComponentSize())),
	)
	if issues := analyzer.Issues(); len(issues) > 0 {
		slog.Warn("document has unresolved references", "issues", len(issues))
		for _, issue := range issues {
			slog.Debug("issue", "code", issue.Code, "message", issue.Message)
		}
	}
	return analyzer, nil
}
