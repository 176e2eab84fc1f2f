package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/view"
)

// requestTimeout bounds one arXiv call from a subcommand.
const requestTimeout = 35 * time.Second

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search arXiv",
	Long: `Search runs a keyword query across all arXiv fields. Papers already in
the library show their status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var addCmd = &cobra.Command{
	Use:   "add <id-or-url>...",
	Short: "Add papers to the library, or move them to another status",
	Long: `Add looks each identifier up on arXiv and stores it with --status.
Identifiers may be bare ids (2101.00001, hep-th/9901001) or abs/pdf URLs.
Adding a paper that is already stored changes its status and keeps its
original date added.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove papers from the library",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the library",
	Long: `List prints the library grouped by status, most recently added first.
With --filter or --status only matching papers are printed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default arxiv.max_results)")
	searchCmd.Flags().String("format", formatTable, "output format: table, json or yaml")

	addCmd.Flags().String("status", string(library.StatusWantToRead), "want-to-read, reading or read")

	listCmd.Flags().String("filter", "", "case-insensitive text matched against title, abstract and authors")
	listCmd.Flags().String("status", view.StatusAll, "all, want-to-read, reading or read")
	listCmd.Flags().String("format", formatTable, "output format: table, json or yaml")

	rootCmd.AddCommand(searchCmd, addCmd, removeCmd, listCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = cfg.Arxiv.MaxResults
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	records, err := newArxivClient().Search(ctx, strings.Join(args, " "), maxResults)
	if err != nil {
		return err
	}
	papers := arxiv.Papers(records)
	for i := range papers {
		if stored, ok := store.Get(papers[i].ID); ok {
			papers[i].Status = stored.Status
			papers[i].DateAdded = stored.DateAdded
		}
	}
	if len(papers) == 0 && format == formatTable {
		fmt.Fprintln(cmd.ErrOrStderr(), "No results.")
		return nil
	}
	return writePapers(cmd.OutOrStdout(), format, papers)
}

func runAdd(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("status")
	status, err := library.ParseStatus(raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store, closeStore, err := openStore(library.WithNotifier(library.NotifierFunc(func(n library.Notification) {
		fmt.Fprintln(out, n.Message())
	})))
	if err != nil {
		return err
	}
	defer closeStore()

	client := newArxivClient()
	var failed int
	for _, input := range args {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		record, err := client.Lookup(ctx, input)
		cancel()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", input, err)
			failed++
			continue
		}
		if _, err := store.AddOrUpdate(record.Paper, status); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d paper(s) could not be added", failed)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	store, closeStore, err := openStore(library.WithNotifier(library.NotifierFunc(func(n library.Notification) {
		fmt.Fprintln(out, n.Message())
	})))
	if err != nil {
		return err
	}
	defer closeStore()

	for _, input := range args {
		id := arxiv.ExtractIdentifier(input)
		if id == "" {
			id = strings.TrimSpace(input)
		}
		if err := store.Remove(id); err != nil {
			return err
		}
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}
	text, _ := cmd.Flags().GetString("filter")
	raw, _ := cmd.Flags().GetString("status")
	status, err := view.ParseStatusFilter(raw)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	filter := view.Filter{Text: text, Status: status}
	papers := store.List()
	if filter.Active() {
		return writePapers(cmd.OutOrStdout(), format, view.Project(papers, filter))
	}

	buckets := view.Bucketize(papers)
	if format != formatTable {
		return encode(cmd.OutOrStdout(), format, buckets)
	}
	if buckets.Len() == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Your library is empty.")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, s := range []library.Status{library.StatusReading, library.StatusWantToRead, library.StatusRead} {
		bucket := buckets.For(s)
		if len(bucket) == 0 {
			continue
		}
		fmt.Fprintf(out, "== %s (%d)\n", s.Label(), len(bucket))
		if err := writePapers(out, formatTable, bucket); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
