package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"wear404_storefront/internal/catalog"
	"wear404_storefront/internal/config"
	"wear404_storefront/internal/database"
)

// catalogSource builds the configured catalog source. A backend that cannot
// be reached yields a nil source, which the loader reports and answers with
// the sample catalog.
func catalogSource(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) catalog.Source {
	switch cfg.Source {
	case "http":
		return catalog.HTTPSource{URL: cfg.URL, Client: &http.Client{Timeout: cfg.Timeout}}
	case "minio":
		client, err := database.ConnectMinIO(ctx, database.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			logger.Error("minio unavailable", zap.Error(err))
			return nil
		}
		return catalog.MinioSource{Client: client, Bucket: cfg.MinioBucket, Object: cfg.Object}
	case "elastic":
		client, err := database.ConnectElastic(database.ElasticConfig{
			URL:      cfg.ElasticURL,
			Username: cfg.ElasticUser,
			Password: cfg.ElasticPassword,
		})
		if err != nil {
			logger.Error("elasticsearch unavailable", zap.Error(err))
			return nil
		}
		return catalog.ElasticSource{Client: client, Index: cfg.ElasticIndex}
	case "file", "":
		return catalog.FileSource{Path: cfg.Path}
	default:
		logger.Error("unknown catalog source", zap.String("source", cfg.Source))
		return nil
	}
}
