package cli

import (
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/spf13/cobra"
)

func newOpenAPICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI schema of the action group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := action.NewOpenAPIDocument(e.opts.Version).YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
