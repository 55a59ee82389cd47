package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/log"
)

func (a *app) keysCmd() *cobra.Command {
	var include, exclude string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List model keys",
		Long: `Lists the model keys of the collection, one per line. --include keeps keys
with an element containing the string; --exclude drops them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			keys, err := a.store.ReadModelKeys(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range modelkey.Filter(keys, include, exclude) {
				row(out, k.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&include, "include", "", "keep keys containing this string")
	cmd.Flags().StringVar(&exclude, "exclude", "", "drop keys containing this string")
	return cmd
}

func (a *app) groupCmd() *cobra.Command {
	var (
		exclude      []string
		drop         string
		filterSingle bool
	)
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group model keys that agree outside the excluded dimensions",
		Long: `Groups model keys by their value in every dimension not named by --exclude.
Each output line is the grouping key followed by its members.

Example:
  qsarstats group --exclude target_effect --drop ignore`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			names, err := a.store.ReadModelKeyNames(ctx)
			if err != nil {
				return err
			}
			keys, err := a.store.ReadModelKeys(ctx)
			if err != nil {
				return err
			}
			groups, err := modelkey.GroupKeys(keys, names, exclude, modelkey.GroupOptions{
				StringToExclude: drop,
				FilterSingleKey: filterSingle,
			})
			if err != nil {
				return err
			}
			a.logger.Debug("grouped model keys",
				log.OperationKey, log.OperationGroup,
				log.ModelCountKey, len(keys),
				log.GroupCountKey, len(groups),
			)

			tw := newTable(cmd.OutOrStdout())
			row(tw, "group", "members")
			for _, g := range groups {
				members := make([]string, len(g.Members))
				for i, m := range g.Members {
					members[i] = m.String()
				}
				row(tw, g.Key.String(), strings.Join(members, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "dimensions to group across")
	cmd.Flags().StringVar(&drop, "drop", "", "drop keys with an element containing this string")
	cmd.Flags().BoolVar(&filterSingle, "filter-single", false, "omit groups with a single member")
	return cmd
}
