package main

import (
	"github.com/spf13/cobra"

	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/store"
)

func (a *app) summaryCmd() *cobra.Command {
	var (
		quantiles []float64
		include   string
		exclude   string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize cross-validation performances per effect and model",
		Long: `Pools the fold scores of every model key by effect and model and prints the
requested quantiles of each labelled metric.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			var keys []modelkey.Key
			if include != "" || exclude != "" {
				all, err := a.store.ReadModelKeys(ctx)
				if err != nil {
					return err
				}
				keys = modelkey.Filter(all, include, exclude)
			}

			summary, err := a.analyzer.SummarizeModelPerformances(ctx, keys, quantiles)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			row(tw, append([]string{"effect", "model", "metric"}, formatFloats(summary.Quantiles)...)...)
			for _, r := range summary.Rows {
				row(tw, append([]string{r.Effect, r.Model, r.Metric}, formatFloats(r.Values)...)...)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64SliceVar(&quantiles, "quantiles", nil, "quantiles to report (default from settings)")
	cmd.Flags().StringVar(&include, "include", "", "summarize keys containing this string only")
	cmd.Flags().StringVar(&exclude, "exclude", "", "skip keys containing this string")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	var (
		resultType  string
		percentiles []float64
	)
	cmd := &cobra.Command{
		Use:   "describe KEY",
		Short: "Describe a stored result of a model key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			rt, err := store.ParseResultType(resultType)
			if err != nil {
				return err
			}
			keys, err := a.parseKeys(ctx, args)
			if err != nil {
				return err
			}
			frame, err := a.analyzer.Describe(ctx, keys[0], rt, percentiles)
			if err != nil {
				return err
			}
			return writeFrame(cmd.OutOrStdout(), "statistic", frame)
		},
	}
	cmd.Flags().StringVar(&resultType, "result-type", store.Performances.String(), "performances, importances, importances_replicates or predictions")
	cmd.Flags().Float64SliceVar(&percentiles, "percentiles", nil, "percentiles to include (default 0.25,0.5,0.75)")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare KEY [KEY...]",
		Short: "Compare in-sample fits of model keys for the same effect",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			keys, err := a.parseKeys(ctx, args)
			if err != nil {
				return err
			}
			scores, err := a.analyzer.CompareInSample(ctx, keys)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			row(tw, "model", "samples", "r2", "rmse", "mae")
			for _, s := range scores {
				row(tw, s.Key.String(), formatFloat(float64(s.Scores.Samples)),
					formatFloat(s.Scores.R2), formatFloat(s.Scores.RMSE), formatFloat(s.Scores.MAE))
			}
			return tw.Flush()
		},
	}
}
