// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package classify groups object components into architectural feature
// groups using a chat-completion model behind the llm.Client seam. It
// runs in two phases: an initial group set derived from input-file
// summaries, then batched component classification that may refine the
// groups as it goes. The classifier references model entities but never
// mutates them.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/petar-djukic/linkscope/internal/llm"
	"github.com/petar-djukic/linkscope/pkg/types"
)

const (
	defaultBatchSize = 40
	// temperature stays low: the protocol wants stable JSON, not prose.
	temperature = 0.2
)

// Config configures a Classifier. The zero value is unusable: Client is
// required.
type Config struct {
	Client    llm.Client   // Completion backend (required)
	BatchSize int          // Components per phase-2 call (default 40)
	Logger    *slog.Logger // Progress logging (default: discard)
}

// Classifier accumulates feature groups across both phases. Not safe
// for concurrent use; one classifier serves one document.
type Classifier struct {
	client    llm.Client
	batchSize int
	log       *slog.Logger

	groups     map[string]*types.FeatureGroup
	groupOrder []string
}

// New creates a classifier with an empty group set.
func New(cfg Config) (*Classifier, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("classify: client is required")
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Classifier{
		client:    cfg.Client,
		batchSize: batch,
		log:       log,
		groups:    make(map[string]*types.FeatureGroup),
	}, nil
}

// Groups returns the current name-to-group map and the names in
// insertion order.
func (c *Classifier) Groups() (map[string]*types.FeatureGroup, []string) {
	return c.groups, c.groupOrder
}

type fileSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type componentSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       *int64 `json:"size"`
	InputFile  string `json:"input_file"`
	Path       string `json:"path"`
	Readonly   *bool  `json:"readonly"`
	Executable *bool  `json:"executable"`
}

// CreateInitialGroups runs phase 1: it derives the starting group set
// from the input files' names and paths. Any previous group set is
// replaced.
func (c *Classifier) CreateInitialGroups(ctx context.Context, files []*types.InputFile) error {
	summaries := make([]fileSummary, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, fileSummary{ID: f.ID, Name: f.Name, Path: f.Path})
	}
	blob, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("classify: encoding input-file summary: %w", err)
	}

	c.log.Info("creating initial feature groups", "input_files", len(files))

	response, err := c.client.Complete(ctx, llm.Request{
		Prompt:      initialGroupsPrompt(string(blob)),
		Temperature: temperature,
		JSONObject:  true,
	})
	if err != nil {
		return fmt.Errorf("classify: phase 1 completion: %w", err)
	}

	specs, err := parseInitialGroups(response)
	if err != nil {
		return err
	}

	c.groups = make(map[string]*types.FeatureGroup, len(specs))
	c.groupOrder = nil
	for _, spec := range specs {
		c.addGroup(spec.Name, spec.Description)
	}
	c.log.Info("created initial feature groups", "groups", len(c.groupOrder))
	return nil
}

// ClassifyComponents runs phase 2: components are classified in batches
// against the current group set. Responses may modify group
// descriptions or introduce new groups; assignments naming unknown
// groups or components are skipped silently.
func (c *Classifier) ClassifyComponents(ctx context.Context, comps []*types.ObjectComponent) error {
	for start := 0; start < len(comps); start += c.batchSize {
		end := start + c.batchSize
		if end > len(comps) {
			end = len(comps)
		}
		c.log.Info("classifying batch", "from", start, "to", end, "total", len(comps))
		if err := c.classifyBatch(ctx, comps[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Classifier) classifyBatch(ctx context.Context, batch []*types.ObjectComponent) error {
	summaries := make([]componentSummary, 0, len(batch))
	for _, oc := range batch {
		s := componentSummary{
			ID:         oc.ID,
			Name:       oc.Name,
			Size:       oc.Size,
			Readonly:   oc.Readonly,
			Executable: oc.Executable,
		}
		if oc.File != nil {
			s.InputFile = oc.File.Name
			s.Path = oc.File.Path
		}
		summaries = append(summaries, s)
	}

	groupSpecs := make([]groupSpec, 0, len(c.groupOrder))
	for _, name := range c.groupOrder {
		g := c.groups[name]
		groupSpecs = append(groupSpecs, groupSpec{Name: g.Name, Description: g.Description})
	}

	compBlob, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("classify: encoding component summary: %w", err)
	}
	groupBlob, err := json.MarshalIndent(groupSpecs, "", "  ")
	if err != nil {
		return fmt.Errorf("classify: encoding group summary: %w", err)
	}

	response, err := c.client.Complete(ctx, llm.Request{
		Prompt:      batchPrompt(string(groupBlob), string(compBlob)),
		Temperature: temperature,
		JSONObject:  true,
	})
	if err != nil {
		return fmt.Errorf("classify: batch completion: %w", err)
	}

	parsed, err := parseBatch(response)
	if err != nil {
		return err
	}

	for _, mod := range parsed.Updates.ModifyGroups {
		if g, ok := c.groups[mod.Name]; ok {
			c.log.Debug("updating group description", "group", mod.Name)
			g.Description = mod.Description
		}
	}
	for _, spec := range parsed.Updates.NewGroups {
		if _, ok := c.groups[spec.Name]; !ok && spec.Name != "" {
			c.log.Debug("creating group", "group", spec.Name)
			c.addGroup(spec.Name, spec.Description)
		}
	}

	byID := make(map[string]*types.ObjectComponent, len(batch))
	for _, oc := range batch {
		byID[oc.ID] = oc
	}
	for _, assign := range parsed.Assignments {
		group, ok := c.groups[assign.GroupName]
		if !ok {
			continue
		}
		oc, ok := byID[assign.ObjectComponentID]
		if !ok {
			continue
		}
		group.Add(oc)
		c.log.Debug("assigned component", "component", oc.ID, "group", assign.GroupName)
	}
	return nil
}

func (c *Classifier) addGroup(name, description string) {
	c.groups[name] = &types.FeatureGroup{Name: name, Description: description}
	c.groupOrder = append(c.groupOrder, name)
}

func initialGroupsPrompt(fileBlob string) string {
	return `You are an expert in embedded software architecture and linker outputs.

Your task is to derive high-level SOFTWARE COMPONENTS from the list of input files.

A FeatureGroup is NOT:
- a single file
- a single object
- a section
- a technical artifact

A FeatureGroup IS:
A meaningful architectural software component that a human developer would recognize, such as:
- Operating system / RTOS
- Runtime / standard library
- Device drivers
- Communication stacks
- Cryptography libraries
- Middleware
- Startup / exception handling
- Application specific modules written by the user
- Third party libraries

Each FeatureGroup should represent a logical part of the software with a clear responsibility.

You will receive a list of input files (object files and libraries) with names and paths.
From this, infer which files belong to the same architectural software component.

Create a list of FeatureGroups that together describe the whole software architecture.

Return JSON in the following format:

{
  "feature_groups": [
    {
      "name": "...",
      "description": "..."
    }
  ]
}

Input files:
` + fileBlob + "\n"
}

func batchPrompt(groupBlob, compBlob string) string {
	return `You are classifying object components into software FeatureGroups.

Existing FeatureGroups:
` + groupBlob + `

Object components to classify:
` + compBlob + `

Return JSON in this format:
{
  "updates": {
    "modify_groups": [{"name": "...", "description": "..."}],
    "new_groups": [{"name": "...", "description": "..."}]
  },
  "assignments": [
    {"object_component_id": "...", "group_name": "..."}
  ]
}
`
}
