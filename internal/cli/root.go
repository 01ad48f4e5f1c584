// Package cli holds the apiprobe command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// rootOptions carries persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// NewRootCmd builds a fresh command tree. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "apiprobe",
		Short: "API probe logger",
		Long: `apiprobe issues GET requests against third-party APIs, appends one record
per probe to a durable log and serves the log back with level, time range
and pattern filters. New records are pushed to websocket observers.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to a config file (default configs/config.yml, optional)")

	cmd.AddCommand(
		newServeCmd(opts),
		newQueryCmd(opts),
		newProbeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
