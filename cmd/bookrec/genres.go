package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGenresCmd(a *app) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "genres [genre...]",
		Short: "List genres or recommend books by genre",
		Long: `Without arguments, lists every genre in the catalog with its book count.
With arguments, lists the books carrying the most of the given genres.
Genres may be labels ("Science Fiction") or slugs (science-fiction).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.listGenres(cmd)
			}

			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer eng.close()

			var genres []string
			for _, arg := range args {
				for g := range strings.SplitSeq(arg, ",") {
					if g = strings.TrimSpace(g); g != "" {
						genres = append(genres, g)
					}
				}
			}

			rec, err := eng.recommend.ByGenres(cmd.Context(), genres, topN)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Top books for %s:\n\n", strings.Join(rec.Genres, ", "))
			renderResults(cmd.OutOrStdout(), rec.Results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top-n", "n", 0, "number of recommendations (default: configured default)")
	return cmd
}

// listGenres reads counts straight from the catalog database.
func (a *app) listGenres(cmd *cobra.Command) error {
	catalogService, closeStore, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer closeStore()

	counts, err := catalogService.GenreCounts(cmd.Context())
	if err != nil {
		return err
	}

	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), counts)
	}
	renderGenreCounts(cmd.OutOrStdout(), counts)
	return nil
}
