package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"apiprobe/internal/codec"
	"apiprobe/internal/service"

	"github.com/spf13/cobra"
)

// cliUserAgent is stored as the caller agent for probes started from the terminal.
const cliUserAgent = "apiprobe-cli"

func newProbeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <url>",
		Short: "Probe one URL and append the outcome to the log",
		Long: `Issue one GET against url, append the resulting record to the configured
store and print the stored line. A network failure is still recorded; the
command then exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}
}

func runProbe(ctx context.Context, opts *rootOptions, target string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := opts.load(true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	prober := service.NewProbeService(store, nil, probeOptions(cfg), log)
	rec, probeErr := prober.Probe(ctx, target, service.CallerMeta{UserAgent: cliUserAgent})
	// The record is on disk unless the probe was refused or the append failed.
	if probeErr == nil || errors.Is(probeErr, service.ErrProbeFailed) {
		line, err := codec.Encode(rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", line)
	}
	return probeErr
}
