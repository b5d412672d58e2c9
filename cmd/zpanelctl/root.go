package main

import (
	"log/slog"
	"os"

	"github.com/primal-host/zpanel/internal/config"
	"github.com/primal-host/zpanel/internal/request"
	"github.com/spf13/cobra"
)

// options are the flags shared by every subcommand.
type options struct {
	appliance  string
	installURL string
	layoutPath string
	verbose    bool
}

func (o *options) client() *request.Client {
	return request.New(o.appliance)
}

// install returns the install socket address, derived from the appliance
// unless given explicitly.
func (o *options) install() (string, error) {
	if o.installURL != "" {
		return o.installURL, nil
	}
	return config.InstallURLFor(o.appliance)
}

func newRootCmd() *cobra.Command {
	o := &options{}
	defaults, err := config.Load()
	if err != nil {
		defaults = &config.Config{ApplianceURL: "http://127.0.0.1:8000"}
	}

	root := &cobra.Command{
		Use:          "zpanelctl",
		Short:        "Inspect and drive a storage appliance from the command line",
		Version:      config.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if o.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVarP(&o.appliance, "appliance", "a", defaults.ApplianceURL, "appliance base URL")
	root.PersistentFlags().StringVar(&o.installURL, "install-url", os.Getenv("INSTALL_URL"), "install socket URL (derived from --appliance when empty)")
	root.PersistentFlags().StringVar(&o.layoutPath, "layout", defaults.LayoutPath, "panel layout file (built-in layout when empty)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(newTablesCmd(o), newActionCmd(o), newInstallCmd(o))
	return root
}
