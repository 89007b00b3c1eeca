package cli

import (
	"fmt"
	"io"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func newAssetsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List every asset with its asset model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := e.adapter(cmd)
			if err != nil {
				return err
			}
			list, err := adapter.ListAllAssets(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list assets: %w", err)
			}
			printAssets(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func printAssets(w io.Writer, list []assets.AssetSummary) {
	table := newTable(w, []string{"Model ID", "Model Name", "Asset ID", "Asset Name"})
	for _, a := range list {
		table.Append([]string{a.ModelID, a.ModelName, a.AssetID, a.AssetName})
	}
	table.Render()
}

func newPropertiesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "properties <asset-name>",
		Short: "List the properties of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := e.adapter(cmd)
			if err != nil {
				return err
			}
			props, err := adapter.ListProperties(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table := newTable(cmd.OutOrStdout(), []string{"Name", "ID"})
			for _, p := range props {
				table.Append([]string{p.Name, p.ID})
			}
			table.Render()
			return nil
		},
	}
}
