// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/linkscope/internal/llm"
	"github.com/petar-djukic/linkscope/pkg/types"
)

// scriptedClient replays canned responses and records the requests it
// received.
type scriptedClient struct {
	responses []string
	err       error
	requests  []llm.Request
}

func (c *scriptedClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return "", c.err
	}
	i := len(c.requests) - 1
	if i >= len(c.responses) {
		return c.responses[len(c.responses)-1], nil
	}
	return c.responses[i], nil
}

func i64(v int64) *int64 { return &v }

func inputFiles() []*types.InputFile {
	return []*types.InputFile{
		{ID: "fl-1", Name: "main.o", Path: "src/app/main.o"},
		{ID: "fl-2", Name: "uart.o", Path: "src/drivers/uart.o"},
	}
}

func components(files []*types.InputFile) []*types.ObjectComponent {
	ro := true
	return []*types.ObjectComponent{
		{ID: "oc-1", Name: ".text.main", Size: i64(100), File: files[0]},
		{ID: "oc-2", Name: ".text.uart_tx", Size: i64(50), File: files[1], Readonly: &ro},
		{ID: "oc-3", Name: ".stack", Size: i64(512)},
	}
}

const phase1Response = `{
  "feature_groups": [
    {"name": "Application", "description": "User application logic"},
    {"name": "Drivers", "description": "Peripheral drivers"}
  ]
}`

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	c, err := New(Config{Client: &scriptedClient{}})
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, c.batchSize)
}

func TestCreateInitialGroups(t *testing.T) {
	client := &scriptedClient{responses: []string{phase1Response}}
	c, err := New(Config{Client: client})
	require.NoError(t, err)

	require.NoError(t, c.CreateInitialGroups(context.Background(), inputFiles()))

	groups, order := c.Groups()
	assert.Equal(t, []string{"Application", "Drivers"}, order)
	assert.Equal(t, "Peripheral drivers", groups["Drivers"].Description)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.True(t, req.JSONObject)
	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
	assert.Contains(t, req.Prompt, `"id": "fl-1"`)
	assert.Contains(t, req.Prompt, `"path": "src/drivers/uart.o"`)
}

func TestCreateInitialGroupsBadResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "I would group these as follows..."},
		{name: "empty group list", response: `{"feature_groups": []}`},
		{name: "unnamed group", response: `{"feature_groups": [{"description": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{Client: &scriptedClient{responses: []string{tt.response}}})
			require.NoError(t, err)
			err = c.CreateInitialGroups(context.Background(), inputFiles())
			assert.ErrorIs(t, err, ErrBadResponse)
		})
	}
}

func TestCreateInitialGroupsFencedResponse(t *testing.T) {
	fenced := "```json\n" + phase1Response + "\n```"
	c, err := New(Config{Client: &scriptedClient{responses: []string{fenced}}})
	require.NoError(t, err)

	require.NoError(t, c.CreateInitialGroups(context.Background(), inputFiles()))
	_, order := c.Groups()
	assert.Len(t, order, 2)
}

func TestCreateInitialGroupsClientError(t *testing.T) {
	boom := errors.New("backend down")
	c, err := New(Config{Client: &scriptedClient{err: boom}})
	require.NoError(t, err)

	err = c.CreateInitialGroups(context.Background(), inputFiles())
	assert.ErrorIs(t, err, boom)
}

func TestClassifyComponents(t *testing.T) {
	batchResp := `{
  "updates": {
    "modify_groups": [{"name": "Drivers", "description": "UART and SPI drivers"}],
    "new_groups": [{"name": "Runtime", "description": "Stack and startup"}]
  },
  "assignments": [
    {"object_component_id": "oc-1", "group_name": "Application"},
    {"object_component_id": "oc-2", "group_name": "Drivers"},
    {"object_component_id": "oc-3", "group_name": "Runtime"},
    {"object_component_id": "oc-404", "group_name": "Drivers"},
    {"object_component_id": "oc-1", "group_name": "Nonexistent"}
  ]
}`
	client := &scriptedClient{responses: []string{phase1Response, batchResp}}
	c, err := New(Config{Client: client})
	require.NoError(t, err)

	files := inputFiles()
	comps := components(files)
	require.NoError(t, c.CreateInitialGroups(context.Background(), files))
	require.NoError(t, c.ClassifyComponents(context.Background(), comps))

	groups, order := c.Groups()
	assert.Equal(t, []string{"Application", "Drivers", "Runtime"}, order)
	assert.Equal(t, "UART and SPI drivers", groups["Drivers"].Description)

	require.Len(t, groups["Application"].Components, 1)
	assert.Equal(t, "oc-1", groups["Application"].Components[0].ID)
	assert.Equal(t, int64(512), groups["Runtime"].TotalSize())

	// Batch prompt carries the current groups and the component facts,
	// including the orphan with no input file.
	prompt := client.requests[1].Prompt
	assert.Contains(t, prompt, `"name": "Application"`)
	assert.Contains(t, prompt, `"input_file": "uart.o"`)
	assert.Contains(t, prompt, `"readonly": true`)
	assert.Contains(t, prompt, `"input_file": ""`)
}

func TestClassifyComponentsBatching(t *testing.T) {
	batchResp := `{"updates": {}, "assignments": []}`
	client := &scriptedClient{responses: []string{phase1Response, batchResp, batchResp}}
	c, err := New(Config{Client: client, BatchSize: 2})
	require.NoError(t, err)

	files := inputFiles()
	comps := components(files)
	require.NoError(t, c.CreateInitialGroups(context.Background(), files))
	require.NoError(t, c.ClassifyComponents(context.Background(), comps))

	// 3 components with batch size 2: one phase-1 call plus two batches.
	require.Len(t, client.requests, 3)

	// The last batch holds only the third component.
	prompt := client.requests[2].Prompt
	assert.Contains(t, prompt, `"id": "oc-3"`)
	assert.NotContains(t, prompt, `"id": "oc-1"`)
}

func TestClassifyComponentsBadBatchResponse(t *testing.T) {
	client := &scriptedClient{responses: []string{phase1Response, `{"assignments": "nope"`}}
	c, err := New(Config{Client: client})
	require.NoError(t, err)

	require.NoError(t, c.CreateInitialGroups(context.Background(), inputFiles()))
	err = c.ClassifyComponents(context.Background(), components(inputFiles()))
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestParseBatchTolerantOfAbsentBlocks(t *testing.T) {
	parsed, err := parseBatch(`{}`)
	require.NoError(t, err)
	assert.Empty(t, parsed.Updates.ModifyGroups)
	assert.Empty(t, parsed.Updates.NewGroups)
	assert.Empty(t, parsed.Assignments)
}

func TestDecodeStrictRejectsTrailingContent(t *testing.T) {
	var v batchResponse
	err := decodeStrict(`{} trailing thoughts`, &v)
	assert.ErrorIs(t, err, ErrBadResponse)
}
