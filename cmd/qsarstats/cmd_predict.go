package main

import (
	"github.com/spf13/cobra"

	"github.com/lciaqsar/qsarstats/aggregate"
)

func (a *app) outOfSampleCmd() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "out-of-sample KEY",
		Short: "Print aggregated cross-validation predictions next to observed targets",
		Long: `Reduces the stored replicate predictions of a model key to one value per
chemical and prints them with the observed target. Chemicals without an
observed target are skipped. The aggregation defaults to the aggregation
setting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			m := a.settings.Aggregation
			if method != "" {
				parsed, err := aggregate.ParseMethod(method)
				if err != nil {
					return err
				}
				m = parsed
			}
			keys, err := a.parseKeys(ctx, args)
			if err != nil {
				return err
			}
			yPred, yTrue, err := a.analyzer.OutOfSamplePrediction(ctx, keys[0], m)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			row(tw, "chemical", yPred.Name, yTrue.Name)
			for i, id := range yPred.Index {
				row(tw, id, formatFloat(yPred.Values[i]), formatFloat(yTrue.Values[i]))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&method, "aggregation", "", "mean, median, min, max, ... (default from settings)")
	return cmd
}
