package main

import (
	"fmt"

	"github.com/primal-host/zpanel/internal/config"
	"github.com/primal-host/zpanel/internal/table"
	"github.com/spf13/cobra"
)

func newTablesCmd(o *options) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Fetch every table of the layout and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := config.LoadLayout(o.layoutPath)
			if err != nil {
				return err
			}
			r := table.NewRenderer(o.client())
			out := cmd.OutOrStdout()

			printed := 0
			for _, t := range layout.Tables {
				if target != "" && t.Target != target {
					continue
				}
				if printed > 0 {
					fmt.Fprintln(out)
				}
				node := r.Render(cmd.Context(), table.Spec{Endpoint: t.Endpoint, Title: t.Title, Target: t.Target})
				if err := table.WriteText(out, node); err != nil {
					return err
				}
				printed++
			}
			if printed == 0 && target != "" {
				return fmt.Errorf("no tables target %q", target)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "only tables placed in this container, e.g. #summary")
	return cmd
}
