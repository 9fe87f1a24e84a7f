// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package linkscope

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// AnalyzeAll parses and resolves several documents concurrently.
// Documents are independent, so the fan-out needs no coordination
// beyond the worker limit. Results come back in input order; the first
// failure cancels the remaining work and is returned.
func AnalyzeAll(ctx context.Context, paths []string, cfg Config) ([]*Analyzer, error) {
	analyzers := make([]*Analyzer, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := New(path, cfg)
			if err != nil {
				return err
			}
			analyzers[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analyzers, nil
}
