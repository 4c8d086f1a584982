package cmd

import (
	"github.com/guzu92/neo4j/pkg/store"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func storeNameFlag(v *viper.Viper) string {
	return v.GetString("store.name")
}

func addStoreNameFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("store-name", store.DefaultName, "File name of the neo store inside the store directory")
	_ = v.BindPFlag("store.name", flags.Lookup("store-name"))
	_ = v.BindEnv("store.name", "STORE_MIGRATION_STORE_NAME")
}

func currentVersionFlag(v *viper.Viper) string {
	return v.GetString("store.current_version")
}

func addCurrentVersionFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("current-version", store.CurrentVersion, "Store format version to stamp copied stores with")
	_ = v.BindPFlag("store.current_version", flags.Lookup("current-version"))
	_ = v.BindEnv("store.current_version", "STORE_MIGRATION_CURRENT_VERSION")
}

func storesFlag(v *viper.Viper) []string {
	return v.GetStringSlice("stores")
}

func addStoresFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringSlice("stores", nil, "Stores to process (default all copyable stores)")
	_ = v.BindPFlag("stores", flags.Lookup("stores"))
	_ = v.BindEnv("stores", "STORE_MIGRATION_STORES")
}

func reportStorageTypeFlag(v *viper.Viper) string {
	return v.GetString("report.storage.type")
}

func addReportStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("report-storage-type", "filesystem", "Where to keep run reports (filesystem, blob, none)")
	_ = v.BindPFlag("report.storage.type", flags.Lookup("report-storage-type"))
	_ = v.BindEnv("report.storage.type", "STORE_MIGRATION_REPORT_STORAGE_TYPE")
}

func reportDirFlag(v *viper.Viper) string {
	return v.GetString("report.dir")
}

func addReportDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("report-dir", "/var/lib/storemigration", "Directory for run reports with filesystem storage")
	_ = v.BindPFlag("report.dir", flags.Lookup("report-dir"))
	_ = v.BindEnv("report.dir", "STORE_MIGRATION_REPORT_DIR")
}

func reportBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("report.blob.bucket")
}

func addReportBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("report-blob-bucket", "", "Bucket URL for run reports with blob storage (gs://, s3://, azblob://)")
	_ = v.BindPFlag("report.blob.bucket", flags.Lookup("report-blob-bucket"))
	_ = v.BindEnv("report.blob.bucket", "STORE_MIGRATION_REPORT_BLOB_BUCKET")
}

func reportBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("report.blob.prefix")
}

func addReportBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("report-blob-prefix", "", "Key prefix for run reports with blob storage")
	_ = v.BindPFlag("report.blob.prefix", flags.Lookup("report-blob-prefix"))
	_ = v.BindEnv("report.blob.prefix", "STORE_MIGRATION_REPORT_BLOB_PREFIX")
}

func reportLimitFlag(v *viper.Viper) int {
	return v.GetInt("report.limit")
}

func addReportLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("report-limit", 10, "Number of run reports to keep")
	_ = v.BindPFlag("report.limit", flags.Lookup("report-limit"))
	_ = v.BindEnv("report.limit", "STORE_MIGRATION_REPORT_LIMIT")
}

func metricsFileFlag(v *viper.Viper) string {
	return v.GetString("metrics.file")
}

func addMetricsFileFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("metrics-file", "", "Write metrics in prometheus text format to this file when done")
	_ = v.BindPFlag("metrics.file", flags.Lookup("metrics-file"))
	_ = v.BindEnv("metrics.file", "STORE_MIGRATION_METRICS_FILE")
}

func concurrencyFlag(v *viper.Viper) int {
	return v.GetInt("concurrency")
}

func addConcurrencyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("concurrency", 4, "Number of stores verified at the same time")
	_ = v.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = v.BindEnv("concurrency", "STORE_MIGRATION_CONCURRENCY")
}
