package cmd

import (
	"fmt"

	"github.com/solatis/disku/internal/agent"
	"github.com/solatis/disku/internal/conditions"
	"github.com/solatis/disku/internal/sizes"
	"github.com/solatis/disku/internal/types"
	"github.com/spf13/cobra"
)

var checkConditions string

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Evaluate alarm conditions against local paths, without a server",
	Long: `check is an operator dry-run: it parses the given conditions, samples
the local filesystems once and prints the verdict per path. Useful for
validating a condition string before putting it in the server config.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkConditions, "conditions", "c", "", `alarm conditions, e.g. "USED > 95%, FREE < 5G"`)
	checkCmd.MarkFlagRequired("conditions")
}

func runCheck(cmd *cobra.Command, paths []string) error {
	set, err := conditions.Parse(checkConditions)
	if err != nil {
		return fmt.Errorf("invalid conditions: %w", err)
	}

	for _, path := range paths {
		snapshot, err := agent.Sample(path)
		if err != nil {
			return err
		}

		result, err := conditions.Evaluate(set, snapshot)
		if err != nil {
			fmt.Printf("%s: cannot evaluate: %v\n", path, err)
			continue
		}

		verdict := "ok"
		if result.Triggered {
			verdict = fmt.Sprintf("ALARM (%s)", types.ConditionSet(result.Matched).String())
		}
		fmt.Printf("%s: %s used of %s, %s free: %s\n",
			path,
			sizes.FormatBytes(snapshot.Used),
			sizes.FormatBytes(snapshot.Total),
			sizes.FormatBytes(snapshot.Free),
			verdict,
		)
	}
	return nil
}
