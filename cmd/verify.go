package cmd

import (
	"context"
	"path/filepath"

	"github.com/guzu92/neo4j/pkg/legacy"
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type verifyOptions struct {
	sourceDir      string
	targetDir      string
	storeName      string
	currentVersion string
	kinds          []store.Kind
	concurrency    int
}

func NewVerifyCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "verify <source-dir> <target-dir>",
		Short: "Check copied stores against their legacy sources",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			kinds, err := store.ParseKinds(storesFlag(v))
			if err != nil {
				return err
			}
			l := zap.L().Named("verify")
			if err := runVerify(ctx, l, afero.NewReadOnlyFs(afero.NewOsFs()), verifyOptions{
				sourceDir:      args[0],
				targetDir:      args[1],
				storeName:      storeNameFlag(v),
				currentVersion: currentVersionFlag(v),
				kinds:          kinds,
				concurrency:    concurrencyFlag(v),
			}); err != nil {
				return err
			}
			l.Info("all stores verified", zap.Int("stores", len(kinds)))
			return nil
		},
	}

	flags := cmd.Flags()
	addStoreNameFlag(flags, v)
	addCurrentVersionFlag(flags, v)
	addStoresFlag(flags, v)
	addConcurrencyFlag(flags, v)

	return cmd
}

// runVerify verifies every kind and reports all mismatches, not just the first.
func runVerify(ctx context.Context, l *zap.Logger, fs afero.Fs, opts verifyOptions) error {
	source := filepath.Join(opts.sourceDir, opts.storeName)
	target := filepath.Join(opts.targetDir, opts.storeName)

	errs := make([]error, len(opts.kinds))
	g, ctx := errgroup.WithContext(ctx)
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}
	for i, kind := range opts.kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			if err := legacy.Verify(fs, source, target, kind, opts.currentVersion); err != nil {
				l.Error("store does not verify", zap.String("kind", string(kind)), zap.Error(err))
				errs[i] = err
				return nil
			}
			l.Debug("store verified", zap.String("kind", string(kind)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return multierr.Combine(errs...)
}
