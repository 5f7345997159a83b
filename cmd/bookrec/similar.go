package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/listenupapp/bookrec/internal/errors"
)

func newSimilarCmd(a *app) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "similar [title]",
		Short: "Recommend books similar to a title",
		Long: `Resolves the title against the catalog and lists the books sharing the
most genres with it. When the title is ambiguous the candidate titles are
printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.close()

			title := strings.Join(args, " ")
			rec, err := eng.recommend.SimilarByTitle(cmd.Context(), title, topN)
			if errors.Is(err, errors.ErrAmbiguous) || errors.Is(err, errors.ErrNotFound) {
				suggestions, serr := eng.recommend.Suggest(cmd.Context(), title, 0)
				if serr == nil && len(suggestions) > 0 {
					renderSuggestions(cmd.ErrOrStderr(), title, suggestions)
				}
				return err
			}
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Because you liked %s:\n\n", rec.Seed.Title)
			renderResults(cmd.OutOrStdout(), rec.Results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top-n", "n", 0, "number of recommendations (default: configured default)")
	return cmd
}
