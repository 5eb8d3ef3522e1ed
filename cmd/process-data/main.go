// Command process-data joins the raw message and category CSV files, cleans
// the categories and writes the result to a SQLite database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/relief/internal/cli"
	"github.com/cognicore/relief/pkg/relief"
	"github.com/cognicore/relief/pkg/relief/store/sqlite"
)

const usage = `Please provide the filepaths of the messages and categories datasets as the first and second argument respectively, as well as the filepath of the database to save the cleaned data to as the third argument.

Example: process-data disaster_messages.csv disaster_categories.csv DisasterResponse.db`

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags cli.Flags

	cmd := &cobra.Command{
		Use:   "process-data <messages_csv> <categories_csv> <output_db_path>",
		Short: "Build the cleaned disaster-response dataset",
		Long: `process-data inner-joins the messages and categories files on id, expands
the categories column into one 0/1 column per category and replaces the
dataset table in the SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				fmt.Fprintln(cmd.OutOrStdout(), usage)
				return nil
			}
			return run(cmd.Context(), cmd.OutOrStdout(), &flags, args[0], args[1], args[2])
		},
	}
	flags.Register(cmd)
	return cmd
}

func run(ctx context.Context, out io.Writer, flags *cli.Flags, messagesPath, categoriesPath, dbPath string) error {
	env, err := flags.Setup(out)
	if err != nil {
		return err
	}

	st, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	cfg := env.Config
	_, err = relief.BuildDataset(ctx, relief.BuildOptions{
		MessagesPath:   messagesPath,
		CategoriesPath: categoriesPath,
		Store:          st,
		Table:          cfg.Dataset.Table,
		Key:            cfg.Dataset.Key,
		Rules:          cfg.Rules(),
		Logger:         env.Logger,
		Metrics:        env.Metrics,
	})
	if err != nil {
		return err
	}
	return env.Finish()
}
