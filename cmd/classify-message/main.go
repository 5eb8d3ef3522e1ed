// Command classify-message loads a saved model and prints the categories
// predicted for one message.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/relief/internal/cli"
	"github.com/cognicore/relief/pkg/relief/model"
)

const usage = `Please provide the filepath of a trained model as the first argument and the message to classify as the remaining arguments.

Example: classify-message classifier.msgpack "We need water and food"`

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		flags cli.Flags
		all   bool
	)

	cmd := &cobra.Command{
		Use:           "classify-message <model_path> <message...>",
		Short:         "Classify a message with a trained model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				fmt.Fprintln(cmd.OutOrStdout(), usage)
				return nil
			}
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), &flags, args[0], strings.Join(args[1:], " "), all)
		},
	}
	flags.Register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "Print every category with its probability")
	return cmd
}

func run(out, logOut io.Writer, flags *cli.Flags, modelPath, message string, all bool) error {
	env, err := flags.Setup(logOut)
	if err != nil {
		return err
	}

	pipe, err := model.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	env.Logger.Debug("model loaded", "id", pipe.ID, "created_at", pipe.CreatedAt, "labels", len(pipe.Labels))

	if all {
		probs, err := pipe.Probabilities(message)
		if err != nil {
			return err
		}
		for _, name := range pipe.Labels {
			fmt.Fprintf(out, "%-24s %.3f\n", name, probs[name])
		}
		return env.Finish()
	}

	pred, err := pipe.PredictText(message)
	if err != nil {
		return err
	}
	var matched []string
	for name, v := range pred {
		if v == 1 {
			matched = append(matched, name)
		}
	}
	sort.Strings(matched)
	if len(matched) == 0 {
		fmt.Fprintln(out, "(no categories)")
	}
	for _, name := range matched {
		fmt.Fprintln(out, name)
	}
	return env.Finish()
}
