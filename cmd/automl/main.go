// Command automl trains a model on a CSV file and prints the training
// result as JSON. It is a thin front end over pipeline.Train; in the full
// product the HTTP layer plays this role.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insightlab/automl/dataset"
	"github.com/insightlab/automl/pipeline"
	"github.com/insightlab/automl/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		task      string
		target    string
		algorithm string
		clusters  int
		logLevel  string
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "automl <dataset.csv>",
		Short: "Train and evaluate a model on a tabular dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Setup(logLevel, true)

			ds, err := dataset.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			// The auto default only makes sense for supervised tasks;
			// clustering always runs k_means unless the user explicitly
			// asked for something else.
			if task == string(pipeline.Clustering) && !cmd.Flags().Changed("algorithm") {
				algorithm = ""
			}

			result, err := pipeline.Train(&pipeline.TrainingRequest{
				Dataset:      ds,
				TaskType:     pipeline.TaskType(task),
				TargetColumn: target,
				Algorithm:    algorithm,
				NClusters:    clusters,
			})
			if err != nil {
				return err
			}

			if summary {
				fmt.Fprintln(cmd.OutOrStdout(), pipeline.BuildSummary(result).Prompt())
				return nil
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "classification", "task type: classification, regression or clustering")
	cmd.Flags().StringVar(&target, "target", "", "target column (required for supervised tasks)")
	cmd.Flags().StringVar(&algorithm, "algorithm", "auto", "algorithm identifier, or auto to compare all candidates")
	cmd.Flags().IntVar(&clusters, "clusters", 3, "cluster count for clustering tasks")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&summary, "summary", false, "print the insight summary text instead of JSON")

	return cmd
}
