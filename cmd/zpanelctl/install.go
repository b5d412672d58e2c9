package main

import (
	"github.com/primal-host/zpanel/internal/install"
	"github.com/spf13/cobra"
)

func newInstallCmd(o *options) *cobra.Command {
	var req install.Request
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install onto a disk and follow the progress stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			url, err := o.install()
			if err != nil {
				return err
			}
			return install.Follow(cmd.Context(), url, req, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&req.Disk, "disk", "d", "", "target block device, e.g. /dev/sda")
	cmd.Flags().StringVarP(&req.PoolName, "pool", "p", "zp_k8s", "zpool name")
	cmd.Flags().BoolVarP(&req.Force, "force", "f", false, "overwrite existing partitions")
	return cmd
}
