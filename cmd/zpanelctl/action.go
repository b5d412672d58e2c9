package main

import (
	"fmt"

	"github.com/primal-host/zpanel/internal/sysaction"
	"github.com/spf13/cobra"
)

func newActionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "action <command> [json]",
		Short: "Post a system command such as reboot or poweroff",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := ""
			if len(args) == 2 {
				data = args[1]
			}
			resp, err := sysaction.NewDispatcher(o.client()).Dispatch(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.Status, resp.Body)
			if !resp.OK() {
				return fmt.Errorf("action %s: appliance answered %d", args[0], resp.Status)
			}
			return nil
		},
	}
}
