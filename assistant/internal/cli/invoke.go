package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/spf13/cobra"
)

func newInvokeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke [event-file]",
		Short: "Handle an action group event read from a file or stdin and print the response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open event file: %w", err)
				}
				defer f.Close()
				in = f
			}

			var req action.Request
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return fmt.Errorf("failed to decode event: %w", err)
			}

			router, err := e.router(cmd)
			if err != nil {
				return err
			}
			resp := router.Handle(cmd.Context(), &req)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}
