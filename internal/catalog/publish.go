package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"wear404_storefront/internal/models"
)

// IndexProducts writes normalized products to an Elasticsearch index, one
// document per product keyed by its id. It stops at the first rejected
// document and returns how many were indexed before it.
func IndexProducts(ctx context.Context, client *elasticsearch.Client, index string, products []models.Product, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for i, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return i, fmt.Errorf("encode product %s: %w", p.ID, err)
		}
		req := esapi.IndexRequest{
			Index:      index,
			DocumentID: p.ID,
			Body:       bytes.NewReader(data),
		}
		if i == len(products)-1 {
			req.Refresh = "true"
		}

		res, err := req.Do(ctx, client)
		if err != nil {
			return i, fmt.Errorf("index product %s: %w", p.ID, err)
		}
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		if res.IsError() {
			return i, fmt.Errorf("index product %s: %s: %s", p.ID, res.Status(), body)
		}
		logger.Debug("product indexed", zap.String("id", p.ID), zap.String("index", index))
	}
	return len(products), nil
}

// UploadDocument stores a raw catalog document as an object.
func UploadDocument(ctx context.Context, client *minio.Client, bucket, object string, data []byte) error {
	_, err := client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, object, err)
	}
	return nil
}
