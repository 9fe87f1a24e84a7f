// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// newIcicleCmd creates the "icicle" command.
func newIcicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icicle <linkinfo.xml>",
		Short: "Export an icicle plot of the folder hierarchy",
		Long: "Icicle renders the compacted folder hierarchy as an interactive plotly\n" +
			"icicle plot: folders, then input files, then object components.",
		Args: cobra.ExactArgs(1),
		RunE: runIcicle,
	}

	cmd.Flags().StringP("out", "o", "linkscope_icicle.html", "Output file")

	return cmd
}

func runIcicle(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	analyzer, err := newAnalyzer(args[0])
	if err != nil {
		return err
	}

	if err := analyzer.ExportIcicleHTML(out); err != nil {
		return err
	}
	slog.Info("icicle plot written", "path", out)
	return nil
}
