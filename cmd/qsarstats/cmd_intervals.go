package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lciaqsar/qsarstats/analysis"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

type intervalFlags struct {
	inverse         bool
	normalize       bool
	includeTraining bool
	workers         int
}

func (f *intervalFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.inverse, "inverse", false, "report values in natural units (10**value)")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "report cumulative frequency instead of count")
	cmd.Flags().BoolVar(&f.includeTraining, "include-training", false, "keep chemicals the model was trained on")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "keys processed concurrently (default: one per CPU)")
}

func (f *intervalFlags) options() analysis.IntervalOptions {
	return analysis.IntervalOptions{
		InverseTransform: f.inverse,
		Normalize:        f.normalize,
		ExcludeTraining:  !f.includeTraining,
	}
}

// failures counts the keys that errored and returns a summary error.
func failures(errs []error) error {
	failed := 0
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		failed++
	}
	if failed == 0 {
		return nil
	}
	return errors.Wrapf(first, "%d of %d model keys failed", failed, len(errs))
}

func (a *app) podCmd() *cobra.Command {
	var flags intervalFlags
	cmd := &cobra.Command{
		Use:   "pod KEY [KEY...]",
		Short: "Print the POD distribution and prediction interval of model keys",
		Long: `Predicts points of departure for every chemical with features and prints
their cumulative distribution with the prediction interval around each value.
Chemicals the model was trained on are left out unless --include-training
is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			keys, err := a.parseKeys(ctx, args)
			if err != nil {
				return err
			}
			results := a.analyzer.BatchPOD(ctx, keys, flags.workers, flags.options())

			out := cmd.OutOrStdout()
			errs := make([]error, len(results))
			for i, r := range results {
				errs[i] = r.Err
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "# %v\n", r.Err)
					continue
				}
				if len(results) > 1 {
					fmt.Fprintf(out, "# %s\n", r.Key)
				}
				if err := writeCDF(out, r.Table); err != nil {
					return err
				}
			}
			return failures(errs)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) moeCmd() *cobra.Command {
	var flags intervalFlags
	cmd := &cobra.Command{
		Use:   "moe KEY [KEY...]",
		Short: "Print margin of exposure distributions of model keys",
		Long: `Prints one MOE distribution per exposure percentile, followed by the number
of chemicals in each level of concern.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			keys, err := a.parseKeys(ctx, args)
			if err != nil {
				return err
			}
			results := a.analyzer.BatchMOE(ctx, keys, flags.workers, flags.options())

			out := cmd.OutOrStdout()
			labels := a.settings.LabelForExposureColumn
			errs := make([]error, len(results))
			for i, r := range results {
				errs[i] = r.Err
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "# %v\n", r.Err)
					continue
				}
				for _, p := range r.Tables {
					fmt.Fprintf(out, "# %s %s\n", r.Key, labels.Label(p.Percentile))
					if err := writeCDF(out, p.Table); err != nil {
						return err
					}
					counts := uncertainty.CountByCategory(p.Table)
					tw := newTable(out)
					for _, c := range []uncertainty.Category{uncertainty.DefiniteConcern, uncertainty.PotentialConcern, uncertainty.NoConcern} {
						row(tw, "# "+c.String(), strconv.Itoa(counts[c]))
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}
			}
			return failures(errs)
		},
	}
	flags.register(cmd)
	return cmd
}
