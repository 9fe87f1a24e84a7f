// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pathutil normalizes and decomposes the file-system-like path
// strings found in linkinfo documents. Input paths mix POSIX and Windows
// separators and may be absolute or relative; everything here is pure
// string manipulation, independent of the host OS.
package pathutil

import "strings"

// Normalize converts a path to forward slashes and removes redundant
// separators. Absolute paths (leading slash or drive prefix like "C:")
// keep a single leading slash; the empty path becomes ".". Normalize is
// idempotent.
func Normalize(p string) string {
	if p == "" {
		return "."
	}

	posix := strings.ReplaceAll(p, "\\", "/")

	var parts []string
	for _, part := range strings.Split(posix, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	normalized := strings.Join(parts, "/")

	if IsAbsolute(p) {
		if !strings.HasPrefix(normalized, "/") {
			normalized = "/" + normalized
		}
	} else if normalized == "" {
		normalized = "."
	}
	return normalized
}

// Split returns the components of the normalized path. "." yields no
// components; absolute paths carry no empty component for the root.
func Split(p string) []string {
	normalized := Normalize(p)
	if normalized == "." {
		return nil
	}
	normalized = strings.TrimPrefix(normalized, "/")

	var parts []string
	for _, part := range strings.Split(normalized, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// Parent returns the normalized parent directory: "." for a bare filename
// or relative path without a parent, "/" for the root of an absolute path.
func Parent(p string) string {
	normalized := Normalize(p)
	if normalized == "." {
		return "."
	}

	parts := Split(normalized)
	if len(parts) == 0 {
		return "."
	}

	wasAbsolute := IsAbsolute(p)
	parentParts := parts[:len(parts)-1]
	if len(parentParts) == 0 {
		if wasAbsolute {
			return "/"
		}
		return "."
	}

	result := strings.Join(parentParts, "/")
	if wasAbsolute {
		result = "/" + result
	}
	return result
}

// Filename returns the last path component, or "" for "." and "/".
func Filename(p string) string {
	parts := Split(p)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// IsAbsolute reports whether the path is absolute: a leading forward
// slash or a Windows drive prefix like "C:".
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "/") || (len(p) > 1 && p[1] == ':')
}

// Join joins components with forward slashes and normalizes the result.
// No usable components yields ".".
func Join(components ...string) string {
	var filtered []string
	for _, c := range components {
		if c != "" {
			filtered = append(filtered, Normalize(c))
		}
	}
	if len(filtered) == 0 {
		return "."
	}

	isAbs := strings.HasPrefix(filtered[0], "/")

	var all []string
	for _, c := range filtered {
		all = append(all, Split(c)...)
	}

	result := strings.Join(all, "/")
	if result == "" {
		result = "."
	}
	if isAbs {
		result = "/" + result
	}
	return result
}
