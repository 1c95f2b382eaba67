// Command seed publishes a catalog document to the backend the storefront
// reads from: the raw document to MinIO, or normalized products to
// Elasticsearch.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wear404_storefront/internal/catalog"
	"wear404_storefront/internal/config"
	"wear404_storefront/internal/database"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		path    string
		timeout time.Duration
	)
	cfg := config.Load(logger)

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Publish a catalog document for the storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&path, "file", cfg.Catalog.Path, "catalog document to publish")
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "overall deadline")

	root.AddCommand(&cobra.Command{
		Use:   "minio",
		Short: "Upload the document to the catalog bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return seedMinio(ctx, cfg.Catalog, path, logger)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "elastic",
		Short: "Normalize the products and index them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return seedElastic(ctx, cfg.Catalog, path, logger)
		},
	})
	return root
}

func seedMinio(ctx context.Context, cfg config.CatalogConfig, path string, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	client, err := database.ConnectMinIO(ctx, database.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
	})
	if err != nil {
		return err
	}
	if err := catalog.UploadDocument(ctx, client, cfg.MinioBucket, cfg.Object, data); err != nil {
		return err
	}
	logger.Info("catalog uploaded",
		zap.String("bucket", cfg.MinioBucket),
		zap.String("object", cfg.Object),
		zap.Int("bytes", len(data)))
	return nil
}

func seedElastic(ctx context.Context, cfg config.CatalogConfig, path string, logger *zap.Logger) error {
	loader := &catalog.Loader{Source: catalog.FileSource{Path: path}, Seed: cfg.Seed, Logger: logger}
	cat := loader.Load(ctx)
	if cat.Fallback {
		return errors.Join(errors.New("catalog document is unusable"), cat.Cause)
	}
	client, err := database.ConnectElastic(database.ElasticConfig{
		URL:      cfg.ElasticURL,
		Username: cfg.ElasticUser,
		Password: cfg.ElasticPassword,
	})
	if err != nil {
		return err
	}
	n, err := catalog.IndexProducts(ctx, client, cfg.ElasticIndex, cat.Products, logger)
	if err != nil {
		return fmt.Errorf("indexed %d of %d products: %w", n, len(cat.Products), err)
	}
	logger.Info("catalog indexed", zap.String("index", cfg.ElasticIndex), zap.Int("products", n))
	return nil
}
