package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/listenupapp/bookrec/internal/errors"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv]",
		Short: "Import a catalog export",
		Long: `Parses a CSV export with Book, Author, Avg_Rating, Num_Ratings, Genres and
URL columns and replaces the stored catalog. Rows without a title are
skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, errors.CodeLoad, "open catalog export")
			}
			defer f.Close()

			catalogService, closeStore, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := catalogService.Import(cmd.Context(), f, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), result.Info)
			}
			renderImport(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
