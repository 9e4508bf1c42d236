package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/stackburn/internal/session"
	"github.com/dbsmedya/stackburn/internal/shutdown"
	"github.com/dbsmedya/stackburn/internal/source/objectstore"
)

var (
	bucketName   string
	bucketPrefix string
	bucketOutput string
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Summarize an S3-compatible bucket as a cloud payload",
	Long: `Bucket lists every object of an S3-compatible bucket (AWS S3, MinIO, R2,
...) and writes a cloud payload JSON document with per-type counts and the
oldest and largest objects. The score command accepts it via --cloud.

Connection settings come from the object_store section of the configuration.
Credentials may reference environment variables, for example
access_key: ${STACKBURN_S3_ACCESS_KEY}.

Example:
  stackburn bucket --bucket backups --prefix photos/ --output cloud.json`,
	RunE: runBucket,
}

func init() {
	bucketCmd.Flags().StringVar(&bucketName, "bucket", "",
		"Override object_store.bucket")
	bucketCmd.Flags().StringVar(&bucketPrefix, "prefix", "",
		"Override object_store.prefix")
	bucketCmd.Flags().StringVarP(&bucketOutput, "output", "o", "",
		"Write the payload to this file instead of stdout")

	rootCmd.AddCommand(bucketCmd)
}

func runBucket(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	storeCfg := cfg.ObjectStore
	if bucketName != "" {
		storeCfg.Bucket = bucketName
	}
	if bucketPrefix != "" {
		storeCfg.Prefix = bucketPrefix
	}
	if storeCfg.Endpoint == "" || storeCfg.Bucket == "" {
		return fmt.Errorf("object_store.endpoint and a bucket are required")
	}

	sessions := session.NewStore(cfg.Session, log)
	defer sessions.Close()

	sess, err := sessions.Create(objectstore.Provider, storeCfg.AccessKey, storeCfg.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to open object store session: %w", err)
	}
	defer sessions.Revoke(sess.ID)

	collector, err := objectstore.New(storeCfg, sessions, sess.ID, log)
	if err != nil {
		return fmt.Errorf("failed to create object store collector: %w", err)
	}

	ctx, cancel := shutdown.SetupSignalHandlerWithCallback(commandContext(cmd), func(sig os.Signal) {
		log.Warnf("Received %s - aborting bucket listing...", sig)
	})
	defer cancel()

	p, err := collector.Collect(ctx)
	if err != nil {
		return err
	}

	return writeJSONTo(cmd, bucketOutput, p)
}
