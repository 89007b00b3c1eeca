package cli

import (
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
	"github.com/spf13/cobra"
)

func newLatestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <asset-name> <property-name>",
		Short: "Show the latest value of an asset property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := e.adapter(cmd)
			if err != nil {
				return err
			}
			m, err := adapter.LatestMeasurement(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), []string{"Asset ID", "Property ID", "Timestamp", "Value", "Units"})
			table.Append([]string{m.AssetID, m.PropertyID, m.EventTimestamp, m.LatestValue.String(), m.Units})
			table.Render()
			return nil
		},
	}
}

func newAggregateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate <asset-name> <property-name>",
		Short: "Show average, maximum and minimum of an asset property over the last 48 hours",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := cmd.Flags().GetString("resolution")
			if err != nil {
				return err
			}
			resolution, err := assets.ParseResolution(raw)
			if err != nil {
				return err
			}
			adapter, err := e.adapter(cmd)
			if err != nil {
				return err
			}
			agg, err := adapter.AggregatedMeasurement(cmd.Context(), args[0], args[1], resolution)
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), []string{"Asset ID", "Property ID", "Timestamp", "Average", "Max", "Min", "Units", "Resolution"})
			table.Append([]string{
				agg.AssetID,
				agg.PropertyID,
				agg.EventTimestamp,
				agg.AverageValue.String(),
				agg.MaxValue.String(),
				agg.MinValue.String(),
				agg.Units,
				string(agg.Resolution),
			})
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("resolution", string(assets.Resolution1h), "aggregation bucket size (1m, 15m, 1h, 1d)")
	return cmd
}
