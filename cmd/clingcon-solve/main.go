// Command clingcon-solve is a small demonstration front-end for
// pkg/clingcon. It stands in for a theory-atom parser: rather than
// reading ground theory atoms, it wires a handful of built-in scenarios
// straight through pkg/clingcon's Builder.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/clingcon-go/pkg/clingcon"
)

func main() {
	var verbose bool
	var scenario string

	root := &cobra.Command{
		Use:   "clingcon-solve",
		Short: "clingcon-solve runs one of the built-in constraint scenarios",
		PreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := scenarios[scenario]
			if !ok {
				return fmt.Errorf("unknown scenario %q (known: %v)", scenario, scenarioNames())
			}
			log.WithField("scenario", scenario).Info("solving")
			vc := clingcon.NewVariableCreator()
			host := clingcon.NewGiniHost(64)
			b := clingcon.NewBuilder(vc, host)
			names := run(b)

			solution, stats, err := clingcon.SolveWithStats(vc, host, b.Model(), clingcon.DefaultConfig())
			if err != nil {
				log.WithError(err).Error("no solution")
				return err
			}
			for _, name := range namesInOrder(names) {
				fmt.Printf("%s = %d\n", name, solution[names[name]])
			}
			if verbose {
				fmt.Print(stats)
			}
			return nil
		},
	}
	root.Flags().StringVarP(&scenario, "scenario", "s", "send-more-money", "scenario to solve")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
