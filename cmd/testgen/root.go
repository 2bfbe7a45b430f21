package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
	"github.com/BerylCAtieno/requirements-testgen/internal/extractor"
	"github.com/BerylCAtieno/requirements-testgen/internal/generator"
)

type options struct {
	model  string
	apiKey string
	output string
}

func newRootCmd(cfg *config.Config, factory generator.Factory) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "testgen <requirements.txt>",
		Short: "Generate test cases from a requirements document",
		Long: "testgen sends a plain-text requirements document to the configured model,\n" +
			"prints the returned test cases as a table and saves them as JSON.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(cmd.Context(), cmd.OutOrStdout(), cfg, factory, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", cfg.DefaultModel, "model to use")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "provider API key (defaults to the environment)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "test_senaryolari.json", "where to write the JSON suite")

	return cmd
}

func generate(ctx context.Context, out io.Writer, cfg *config.Config, factory generator.Factory, opts *options, path string) error {
	if !slices.Contains(cfg.Models, opts.model) {
		return fmt.Errorf("unknown model %q", opts.model)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read requirements: %w", err)
	}
	text, err := extractor.DecodeText(data)
	if err != nil {
		return err
	}

	gen, err := factory(ctx, opts.apiKey)
	if errors.Is(err, generator.ErrMissingAPIKey) {
		return fmt.Errorf("please provide your API key with --api-key or the environment")
	}
	if err != nil {
		return err
	}

	if cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.GenerateTimeout)
		defer cancel()
	}

	raw, err := gen.Generate(ctx, opts.model, generator.BuildPrompt(text))
	if err != nil {
		return fmt.Errorf("an error occurred: %w", err)
	}

	result := generator.ParseResponse(raw)
	if !result.Parsed {
		fmt.Fprintln(out, "The model output was not valid JSON, showing the raw text:")
		fmt.Fprintln(out, raw)
		return nil
	}

	printTable(out, result.Table)
	fmt.Fprintf(out, "%d test cases generated\n", result.Count)

	if err := os.WriteFile(opts.output, result.Pretty(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	fmt.Fprintln(out, "Saved:", opts.output)

	return nil
}

func printTable(out io.Writer, t generator.Table) {
	table := tablewriter.NewWriter(out)
	table.SetHeader(t.Columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetRowLine(true)
	table.AppendBulk(t.Rows)
	table.Render()
}
