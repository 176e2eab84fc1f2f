package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/paperlib/internal/backup"
	"github.com/csheth/paperlib/internal/library"
)

const backupTimeout = 2 * time.Minute

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a compressed library snapshot to S3",
	Long: `Backup uploads the library to backup.bucket under backup.prefix and keeps
the newest backup.keep snapshots. Credentials come from
PAPERLIB_BACKUP_S3_ACCESS_KEY and PAPERLIB_BACKUP_S3_SECRET_KEY, or the default
AWS credential chain when both are unset.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().Bool("prune-only", false, "only delete backups beyond backup.keep")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	pruneOnly, _ := cmd.Flags().GetBool("prune-only")

	ctx, cancel := context.WithTimeout(cmd.Context(), backupTimeout)
	defer cancel()
	uploader, err := newUploader(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if pruneOnly {
		deleted, err := uploader.Prune(ctx)
		for _, key := range deleted {
			fmt.Fprintln(out, "deleted", key)
		}
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	key, err := uploader.Run(ctx, snapshotFunc(store))
	if key != "" {
		fmt.Fprintf(out, "uploaded s3://%s/%s (%d papers)\n", cfg.Backup.Bucket, key, store.Len())
	}
	return err
}

func newUploader(ctx context.Context) (*backup.Uploader, error) {
	creds, err := backup.LoadCredentials()
	if err != nil {
		return nil, err
	}
	client, err := backup.NewS3Client(ctx, cfg.Backup.Region, cfg.Backup.Endpoint, creds)
	if err != nil {
		return nil, err
	}
	return backup.NewUploader(client, cfg.Backup.Bucket, cfg.Backup.Prefix, cfg.Backup.Keep, logger)
}

func snapshotFunc(store *library.Store) backup.SnapshotFunc {
	return func() ([]byte, error) {
		return library.EncodeSnapshot(store.Snapshot())
	}
}
