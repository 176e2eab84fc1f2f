package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/csheth/paperlib/internal/brief"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/summary"
)

// summarizeTimeout covers a PDF download plus a slow local model.
const summarizeTimeout = 5 * time.Minute

const wrapWidth = 80

var summarizeCmd = &cobra.Command{
	Use:   "summarize <id-or-url>",
	Short: "Summarize a paper from its abstract or full text",
	Long: `Summarize sends the paper to the configured summarizer backend and prints
the cleaned result split into its sections. Papers outside the library are
looked up on arXiv first. --full-text summarizes the PDF instead of the
abstract.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().Bool("full-text", false, "summarize the PDF rather than the abstract")
	summarizeCmd.Flags().String("format", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	fullText, _ := cmd.Flags().GetBool("full-text")
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", formatJSON, formatYAML:
	default:
		return fmt.Errorf("unsupported format %q: use text, json or yaml", format)
	}

	service := newSummarizer()
	if service == nil {
		return errors.New("no summarizer backend is available; check the summarizer settings")
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), summarizeTimeout)
	defer cancel()

	paper, err := resolvePaper(ctx, store, args[0])
	if err != nil {
		return err
	}
	b, err := service.Summarize(ctx, paper, fullText)
	if err != nil {
		return err
	}
	if format != "text" {
		return encode(cmd.OutOrStdout(), format, b)
	}
	writeBrief(cmd.OutOrStdout(), paper, b)
	return nil
}

// resolvePaper prefers the stored entry and falls back to an arXiv lookup.
func resolvePaper(ctx context.Context, store *library.Store, input string) (library.Paper, error) {
	if paper, ok := store.Get(input); ok {
		return paper, nil
	}
	record, err := newArxivClient().Lookup(ctx, input)
	if err != nil {
		return library.Paper{}, err
	}
	if paper, ok := store.Get(record.Paper.ID); ok {
		return paper, nil
	}
	return record.Paper, nil
}

func writeBrief(w io.Writer, paper library.Paper, b brief.Brief) {
	fmt.Fprintf(w, "%s\n%s via %s in %s\n\n", paper.Title, b.Source, b.Backend, b.Duration.Round(time.Millisecond))
	sections := b.Result.Sections
	if !sections.Structured {
		fmt.Fprintln(w, wordwrap.String(sections.Text, wrapWidth))
		return
	}
	for _, part := range []struct{ title, text string }{
		{"Human-Like Summary", sections.Summary},
		{"Main Points", sections.MainPoints},
		{"Conclusion", sections.Conclusion},
	} {
		if part.text == "" {
			continue
		}
		fmt.Fprintf(w, "## %s\n%s\n\n", part.title, wordwrap.String(part.text, wrapWidth))
	}
}

// cleanCmd runs the summary post-processing on text read from stdin, which
// helps when tuning a new summarizer backend.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean summarizer output read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		result := summary.Process(string(raw))
		writeBrief(cmd.OutOrStdout(), library.Paper{Title: "(stdin)"}, brief.Brief{
			Source:  "stdin",
			Backend: "none",
			Result:  result,
		})
		return nil
	},
}

func init() {
	summarizeCmd.AddCommand(cleanCmd)
}
