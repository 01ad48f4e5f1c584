package cli

import (
	"context"
	"fmt"
	"io"

	"apiprobe/internal/codec"
	"apiprobe/internal/service"
	"apiprobe/internal/timeparse"

	"github.com/spf13/cobra"
)

type queryFlags struct {
	level   string
	from    string
	to      string
	pattern string
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	f := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print stored records, optionally filtered",
		Long: `Print stored records as JSON lines in creation order.

The time range applies only when both --from and --to are given; a date-only
--to covers the whole day. Lines that cannot be decoded are reported on stderr.

Examples:
  apiprobe query --level error
  apiprobe query --from 2025-08-01 --to 2025-08-31 --pattern dog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&f.level, "level", "", "record level (success, error, info)")
	cmd.Flags().StringVar(&f.from, "from", "", "range start (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')")
	cmd.Flags().StringVar(&f.to, "to", "", "range end (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')")
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "case-insensitive regular expression")
	return cmd
}

func (f *queryFlags) filter() (service.Filter, error) {
	out := service.Filter{Level: f.level, Pattern: f.pattern}
	var err error
	if f.from != "" {
		if out.From, err = timeparse.RangeBound(f.from, false); err != nil {
			return service.Filter{}, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if out.To, err = timeparse.RangeBound(f.to, true); err != nil {
			return service.Filter{}, fmt.Errorf("--to: %w", err)
		}
	}
	return out, nil
}

func runQuery(ctx context.Context, opts *rootOptions, f *queryFlags, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	filter, err := f.filter()
	if err != nil {
		return err
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

	res, err := service.NewQueryService(store, log).Query(ctx, filter)
	if err != nil {
		return fmt.Errorf("querying logs: %w", err)
	}

	for _, rec := range res.Records {
		line, err := codec.Encode(rec)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(stdout, "%s\n", line); err != nil {
			return err
		}
	}
	for _, sk := range res.Skipped {
		fmt.Fprintf(stderr, "skipped line %d: %s\n", sk.Position, sk.Reason)
	}
	return nil
}
