// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// FeatureGroup is an architectural software component inferred by the
// classifier, e.g. "RTOS kernel" or "Ethernet stack". It references model
// components without owning or mutating them.
type FeatureGroup struct {
	Name        string             // Group name, unique within one run
	Description string             // One-sentence responsibility summary
	Components  []*ObjectComponent // Assigned components in assignment order
}

// Add appends a component to the group.
func (g *FeatureGroup) Add(c *ObjectComponent) {
	g.Components = append(g.Components, c)
}

// TotalSize returns the byte sum over the assigned components.
func (g *FeatureGroup) TotalSize() int64 {
	var total int64
	for _, c := range g.Components {
		total += c.SizeOrZero()
	}
	return total
}
