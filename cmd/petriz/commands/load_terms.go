package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"petriz/core"
	"petriz/internal/loader"
)

var (
	loadTermsBatchSize int
	loadTermsSource    string
)

var loadTermsCmd = &cobra.Command{
	Use:   "load-terms <path>",
	Short: "Load glossary terms from CSV files into the database",
	Long: `Load glossary terms from CSV files into the database.

<path> may be a single CSV file, a directory (every *.csv file in it
is loaded, one at a time, in enumeration order) or an http(s) URL.

Expected CSV columns: Term, Definition and optionally
Grammatical Label, Topic (comma-separated) and URL. Loaded terms are
marked verified.`,
	Args: RequireLoadPath,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := core.GetDB()
		if err != nil {
			return err
		}

		l, err := loader.New(db, loadTermsSource, loadTermsBatchSize)
		if err != nil {
			return err
		}
		l.Out = cmd.OutOrStdout()

		count, err := l.LoadPath(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d terms to the database\n", count)
		return nil
	},
}

func init() {
	loadTermsCmd.Flags().IntVar(&loadTermsBatchSize, "batch-size", loader.DefaultBatchSize, "Number of terms committed to the database at once")
	loadTermsCmd.Flags().StringVar(&loadTermsSource, "source", "", "Name of the source of the data, recorded on every loaded term")
	rootCmd.AddCommand(loadTermsCmd)
}
