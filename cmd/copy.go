package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/guzu92/neo4j/pkg/legacy"
	"github.com/guzu92/neo4j/pkg/report"
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type copyOptions struct {
	sourceDir      string
	targetDir      string
	storeName      string
	currentVersion string
	kinds          []store.Kind
}

func NewCopyCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "copy <source-dir> <target-dir>",
		Short: "Copy legacy stores into the target directory stamped with the current version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("copy")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			kinds, err := store.ParseKinds(storesFlag(v))
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			storage, err := createStorage(ctx, v, l, fs)
			if err != nil {
				return fmt.Errorf("failed to create storage: %w", err)
			}
			var reports *report.Reports
			if storage != nil {
				reports = report.NewReports(l, storage, report.WithLimit(reportLimitFlag(v)))
				defer func() {
					if err := reports.Close(); err != nil {
						l.Warn("failed to close report storage", zap.Error(err))
					}
				}()
			}

			rep, err := runCopy(ctx, l, fs, reports, copyOptions{
				sourceDir:      args[0],
				targetDir:      args[1],
				storeName:      storeNameFlag(v),
				currentVersion: currentVersionFlag(v),
				kinds:          kinds,
			})
			if file := metricsFileFlag(v); file != "" {
				if errMetrics := prometheus.WriteToTextfile(file, prometheus.DefaultGatherer); errMetrics != nil {
					l.Warn("failed to write metrics", zap.String("file", file), zap.Error(errMetrics))
				}
			}
			if err != nil {
				return err
			}
			l.Info("copied stores",
				zap.String("run_id", rep.RunID),
				zap.Int("stores", len(rep.Stores)),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	addStoreNameFlag(flags, v)
	addCurrentVersionFlag(flags, v)
	addStoresFlag(flags, v)
	addReportStorageTypeFlag(flags, v)
	addReportDirFlag(flags, v)
	addReportBlobBucketFlag(flags, v)
	addReportBlobPrefixFlag(flags, v)
	addReportLimitFlag(flags, v)
	addMetricsFileFlag(flags, v)

	return cmd
}

// runCopy opens the legacy stores under opts.sourceDir and copies the
// requested kinds. The report is written even for a failed run; a failed
// target must be discarded.
func runCopy(ctx context.Context, l *zap.Logger, fs afero.Fs, reports *report.Reports, opts copyOptions) (*report.Report, error) {
	source := filepath.Join(opts.sourceDir, opts.storeName)
	target := filepath.Join(opts.targetDir, opts.storeName)
	rep := report.New(source, target, store.LegacyVersion, opts.currentVersion)
	l = l.With(zap.String("run_id", rep.RunID))

	err := copyStores(l, fs, rep, source, target, opts)
	rep.Finish(err)
	if err != nil {
		l.Error("copy failed, discard target", zap.String("target", opts.targetDir), zap.Error(err))
	}
	if reports != nil {
		if errReport := reports.Add(ctx, rep); errReport != nil {
			err = multierr.Append(err, errReport)
		}
	}
	return rep, err
}

func copyStores(l *zap.Logger, fs afero.Fs, rep *report.Report, source, target string, opts copyOptions) (err error) {
	s, err := legacy.New(l, fs, source, legacy.WithCurrentVersion(opts.currentVersion))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	for _, kind := range opts.kinds {
		if err := s.Copy(kind, target); err != nil {
			return err
		}
		entry, err := reportEntry(fs, kind, target, opts.currentVersion)
		if err != nil {
			return err
		}
		rep.Add(entry)
	}
	return nil
}

func reportEntry(fs afero.Fs, kind store.Kind, targetBase, version string) (report.Entry, error) {
	layout, err := store.LayoutOf(kind)
	if err != nil {
		return report.Entry{}, err
	}
	file := store.FileName(targetBase, layout.Suffix)
	info, err := fs.Stat(file)
	if err != nil {
		return report.Entry{}, err
	}
	trailer, err := legacy.ReadTrailer(fs, file, len(store.Encode(layout.Descriptor(version))))
	if err != nil {
		return report.Entry{}, err
	}
	return report.Entry{
		Kind:    string(kind),
		File:    file,
		Size:    info.Size(),
		Trailer: trailer,
	}, nil
}

// supportedBlobSchemes lists the URL schemes supported by blob storage
var supportedBlobSchemes = []string{"gs://", "s3://", "azblob://"}

// createStorage creates the report storage based on the configuration.
// It returns nil for storage type "none".
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger, fs afero.Fs) (report.Storage, error) {
	storageType := reportStorageTypeFlag(v)
	blobBucket := reportBlobBucketFlag(v)
	blobPrefix := reportBlobPrefixFlag(v)

	if storageType != "blob" && (blobBucket != "" || blobPrefix != "") {
		l.Warn("blob storage flags are set but report-storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", storageType),
			zap.String("blob-bucket", blobBucket),
			zap.String("blob-prefix", blobPrefix),
		)
	}

	switch storageType {
	case "none":
		l.Info("not keeping reports")
		return nil, nil
	case "blob":
		if blobBucket == "" {
			return nil, fmt.Errorf("blob bucket URL is required when report-storage-type is 'blob' (supported schemes: gs://, s3://, azblob://)")
		}
		if !isValidBlobScheme(blobBucket) {
			return nil, fmt.Errorf("unsupported blob storage URL scheme in %q; supported schemes: gs://, s3://, azblob://", blobBucket)
		}
		l.Info("using blob report storage",
			zap.String("bucket", blobBucket),
			zap.String("prefix", blobPrefix),
		)
		return report.NewBlobStorage(ctx, blobBucket, blobPrefix)
	case "filesystem", "":
		dir := reportDirFlag(v)
		l.Info("using filesystem report storage", zap.String("dir", dir))
		return report.NewFilesystemStorage(fs, dir)
	default:
		return nil, fmt.Errorf("unknown storage type: %s (supported: filesystem, blob, none)", storageType)
	}
}

func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}
