// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/petar-djukic/linkscope/internal/classify"
	"github.com/petar-djukic/linkscope/internal/llm"
)

// newClassifyCmd creates the "classify" command.
func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <linkinfo.xml>",
		Short: "Group components into feature groups via an LLM",
		Long: "Classify derives architectural feature groups from the input files, then\n" +
			"assigns object components to them in batches using a chat-completion\n" +
			"model. The API key is read from LINKSCOPE_API_KEY (or OPENAI_API_KEY).",
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("env-file", "", "Env file to load before reading credentials")
	cmd.Flags().String("backend", "openai", "Model backend: openai or bedrock")
	cmd.Flags().String("base-url", "", "OpenAI-compatible API root (openai backend)")
	cmd.Flags().String("region", "", "AWS region (bedrock backend)")
	cmd.Flags().String("model", "", "Model name or Bedrock model ID")
	cmd.Flags().Int("batch-size", 0, "Components per classification batch (default 40)")
	cmd.Flags().Int("sample", 0, "Cap input files fed to group derivation (0 = all)")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(args[0])
	if err != nil {
		return err
	}

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	classifier, err := classify.New(classify.Config{
		Client:    client,
		BatchSize: batchSize,
		Logger:    slog.Default(),
	})
	if err != nil {
		return err
	}

	doc := analyzer.Document()
	files := doc.OrderedInputFiles()
	if sample, _ := cmd.Flags().GetInt("sample"); sample > 0 && sample < len(files) {
		files = files[:sample]
	}

	ctx := cmd.Context()
	if err := classifier.CreateInitialGroups(ctx, files); err != nil {
		return err
	}
	if err := classifier.ClassifyComponents(ctx, doc.OrderedComponents()); err != nil {
		return err
	}

	groups, order := classifier.Groups()
	for _, name := range order {
		g := groups[name]
		cmd.Printf("%s (%d components, %s)\n    %s\n",
			g.Name, len(g.Components), humanize.IBytes(uint64(g.TotalSize())), g.Description)
	}
	return nil
}

// newLLMClient builds the configured completion backend.
func newLLMClient(cmd *cobra.Command) (llm.Client, error) {
	backend, _ := cmd.Flags().GetString("backend")
	model, _ := cmd.Flags().GetString("model")

	switch backend {
	case "openai":
		baseURL, _ := cmd.Flags().GetString("base-url")
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			BaseURL: baseURL,
			Model:   model,
			APIKey:  apiKeyFromEnv(),
		})
	case "bedrock":
		region, _ := cmd.Flags().GetString("region")
		return llm.NewBedrockClient(cmd.Context(), llm.BedrockConfig{
			ModelID: model,
			Region:  region,
		})
	default:
		return nil, fmt.Errorf("unsupported backend %q (supported: openai, bedrock)", backend)
	}
}

// apiKeyFromEnv reads the API key from the environment only; there is
// deliberately no flag for it.
func apiKeyFromEnv() string {
	if key := os.Getenv("LINKSCOPE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
