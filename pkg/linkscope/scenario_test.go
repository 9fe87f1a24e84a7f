// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package linkscope

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shape of a real firmware linkinfo document: entity counts match the
// dpl demo build this package was developed against.
const (
	scenarioFiles      = 133
	scenarioLiveComps  = 1042
	scenarioDebugComps = 595
	scenarioOrphans    = 11
	scenarioGroups     = 39
	scenarioAreas      = 9
)

// scenarioDoc synthesizes a document with the scenario's counts: debug
// sections interleaved with live ones, the last orphan components
// carrying no input-file reference, and every live component sized 8
// bytes so totals stay checkable.
func scenarioDoc() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><link_info><input_file_list>`)
	for i := 0; i < scenarioFiles; i++ {
		fmt.Fprintf(&b, `<input_file id="fl-%d"><name>obj%d.o</name><path>src/mod%d/obj%d.o</path></input_file>`,
			i, i, i%10, i)
	}
	b.WriteString(`</input_file_list><object_component_list>`)

	owned := scenarioLiveComps - scenarioOrphans
	for i := 0; i < scenarioLiveComps; i++ {
		fmt.Fprintf(&b, `<object_component id="oc-%d"><name>.text.fn%d</name><size>8</size>`, i, i)
		if i < owned {
			fmt.Fprintf(&b, `<input_file_ref idref="fl-%d"/>`, i%scenarioFiles)
		}
		b.WriteString(`</object_component>`)
	}
	for i := 0; i < scenarioDebugComps; i++ {
		fmt.Fprintf(&b, `<object_component id="dbg-%d"><name>.debug_info.%d</name><size>10</size></object_component>`, i, i)
	}
	b.WriteString(`</object_component_list><logical_group_list>`)

	for i := 0; i < scenarioGroups; i++ {
		fmt.Fprintf(&b, `<logical_group id="lg-%d"><name>GROUP_%d</name><contents>`, i, i)
		fmt.Fprintf(&b, `<object_component_ref idref="oc-%d"/>`, i)
		// Some groups also reference debug sections; those refs must
		// vanish silently once filtering is on.
		fmt.Fprintf(&b, `<object_component_ref idref="dbg-%d"/>`, i)
		b.WriteString(`</contents></logical_group>`)
	}
	b.WriteString(`</logical_group_list><placement_map>`)

	for i := 0; i < scenarioAreas; i++ {
		fmt.Fprintf(&b, `<memory_area><name>AREA_%d</name><length>100000</length><usage_details>`, i)
		fmt.Fprintf(&b, `<allocated_space><size>100</size><logical_group_ref idref="lg-%d"/></allocated_space>`, i)
		b.WriteString(`</usage_details></memory_area>`)
	}
	b.WriteString(`</placement_map></link_info>`)
	return b.String()
}

func TestScenarioCounts(t *testing.T) {
	a, err := NewFromReader(strings.NewReader(scenarioDoc()), Config{FilterDebug: true})
	require.NoError(t, err)

	doc := a.Document()
	assert.Len(t, doc.InputFiles, scenarioFiles)
	assert.Len(t, doc.Components, scenarioLiveComps)
	assert.Len(t, doc.Groups, scenarioGroups)
	assert.Len(t, doc.Areas, scenarioAreas)
	assert.Len(t, doc.FilteredIDs, scenarioDebugComps)
	assert.Len(t, doc.OrphanComponents(), scenarioOrphans)

	// Group references to filtered debug sections vanish without issues.
	assert.Empty(t, doc.Issues)

	// Every live component weighs 8 bytes; the folder tree accumulates
	// the owned ones and the total covers orphans too.
	assert.Equal(t, int64(8*scenarioLiveComps), doc.TotalComponentSize())
	assert.Equal(t, int64(8*(scenarioLiveComps-scenarioOrphans)),
		a.FolderHierarchy().AccumulatedSize())
}

func TestScenarioFilterConsistency(t *testing.T) {
	a, err := NewFromReader(strings.NewReader(scenarioDoc()), Config{FilterDebug: true})
	require.NoError(t, err)

	doc := a.Document()
	for id := range doc.FilteredIDs {
		_, live := doc.Components[id]
		assert.False(t, live, "filtered id %s must not be live", id)
	}
}

func TestScenarioWithoutFilterKeepsDebugSections(t *testing.T) {
	a, err := NewFromReader(strings.NewReader(scenarioDoc()), Config{})
	require.NoError(t, err)

	doc := a.Document()
	assert.Len(t, doc.Components, scenarioLiveComps+scenarioDebugComps)
	assert.Empty(t, doc.FilteredIDs)
}
