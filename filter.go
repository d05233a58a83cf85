package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"selectlist/internal/domain"
	"selectlist/internal/filter"
	"selectlist/internal/source"
)

type filterOptions struct {
	file       string
	maxResults int
	scorer     string
	scores     bool
}

func newFilterCmd() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter QUERY",
		Short: "Rank items against a query without the interactive picker",
		Long: `filter reads items from --file or standard input and prints the ones matching
QUERY, best first. It exits with status 1 when nothing matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.file, "file", "", "read items from this file instead of stdin")
	flags.IntVar(&opts.maxResults, "max-results", 0, "maximum number of matches printed (0 = unlimited)")
	flags.StringVar(&opts.scorer, "scorer", "", "match scorer: subsequence, fzf or sahilm")
	flags.BoolVar(&opts.scores, "scores", false, "prefix each match with its score")
	return cmd
}

func runFilter(cmd *cobra.Command, opts *filterOptions, query string) error {
	scorer, err := scorerFor(opts.scorer)
	if err != nil {
		return err
	}

	svc := source.NewService(nil)
	var entries []domain.Entry
	if opts.file != "" {
		entries, err = svc.ReadFile(opts.file)
	} else {
		entries, err = svc.ReadLines("stdin", cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	ranked, err := filter.Ranked(entries, query, filter.Options[domain.Entry]{
		Scorer:     scorer,
		Key:        func(e domain.Entry) string { return e.Display },
		MaxResults: opts.maxResults,
	})
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		return exitCode(exitNoSelection)
	}

	out := cmd.OutOrStdout()
	for _, r := range ranked {
		if opts.scores {
			fmt.Fprintf(out, "%.3f\t%s\n", r.Score, r.Item.Display)
		} else {
			fmt.Fprintln(out, r.Item.Display)
		}
	}
	return nil
}
