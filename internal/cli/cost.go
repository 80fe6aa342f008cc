package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvtraffic/config"
	"github.com/katalvlaran/lvtraffic/flow"
)

func newCostCmd() *cobra.Command {
	var (
		co, rev    float64
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Evaluate the BPR edge cost for flow estimates",
		Long: `Evaluate the BPR congestion cost of one directed edge from its
co-directional and reverse flow estimates, using the flow parameters of
--config (or the defaults).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if co < 0 || rev < 0 {
				return fmt.Errorf("cost: estimates must be non-negative (co=%g rev=%g)", co, rev)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			p := cfg.FlowParams()
			cost := flow.Cost(p, co, rev)
			loggerFromContext(cmd.Context()).Debug("edge cost", "co", co, "rev", rev, "t0", p.T0, "cost", cost)
			fmt.Fprintf(cmd.OutOrStdout(), "cost: %d\nexact: %.3f\n", cost, flow.CostExact(p, co, rev))
			if cost >= p.CongestedCost {
				fmt.Fprintln(cmd.OutOrStdout(), "congested: true")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&co, "co", 0, "co-directional flow estimate")
	cmd.Flags().Float64Var(&rev, "rev", 0, "reverse flow estimate")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	return cmd
}
