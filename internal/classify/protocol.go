// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadResponse reports a model response that is not valid protocol
// JSON. The request may be retried with a fresh completion; the
// classifier state is unchanged.
var ErrBadResponse = errors.New("malformed classifier response")

// groupSpec is one feature group in a model response.
type groupSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// initialGroupsResponse is the phase-1 payload.
type initialGroupsResponse struct {
	FeatureGroups []groupSpec `json:"feature_groups"`
}

// batchUpdates carries group changes a batch response may request.
// Either list may be absent.
type batchUpdates struct {
	ModifyGroups []groupSpec `json:"modify_groups"`
	NewGroups    []groupSpec `json:"new_groups"`
}

// batchAssignment maps one component onto a group by name.
type batchAssignment struct {
	ObjectComponentID string `json:"object_component_id"`
	GroupName         string `json:"group_name"`
}

// batchResponse is the phase-2 payload.
type batchResponse struct {
	Updates     batchUpdates      `json:"updates"`
	Assignments []batchAssignment `json:"assignments"`
}

// parseInitialGroups decodes a phase-1 response. A response without any
// groups is malformed: phase 2 cannot classify against an empty set.
func parseInitialGroups(response string) ([]groupSpec, error) {
	var out initialGroupsResponse
	if err := decodeStrict(response, &out); err != nil {
		return nil, err
	}
	if len(out.FeatureGroups) == 0 {
		return nil, fmt.Errorf("%w: no feature_groups in response", ErrBadResponse)
	}
	for _, g := range out.FeatureGroups {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: feature group without a name", ErrBadResponse)
		}
	}
	return out.FeatureGroups, nil
}

// parseBatch decodes a phase-2 response. Absent updates or assignments
// are fine; a batch may legitimately change nothing.
func parseBatch(response string) (*batchResponse, error) {
	var out batchResponse
	if err := decodeStrict(response, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// decodeStrict unmarshals one JSON object, tolerating a markdown code
// fence around it but rejecting trailing garbage and unknown shapes.
func decodeStrict(response string, v any) error {
	s := stripFence(response)
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing content after JSON object", ErrBadResponse)
	}
	return nil
}

// stripFence removes a wrapping ``` or ```json fence, which some models
// emit even when asked for a bare JSON object.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
