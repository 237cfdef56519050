// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const GigsIndexName = "gigs"

func gigsMapping() (string, error) {
	keyword := map[string]interface{}{"type": "keyword"}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":          map[string]interface{}{"type": "text"},
				"description":    map[string]interface{}{"type": "text"},
				"username":       map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"slug":           keyword,
				"user_id":        keyword,
				"payment_method": keyword,
				"status":         keyword,
				"price":          map[string]interface{}{"type": "double"},
				"points":         map[string]interface{}{"type": "long"},
				"one_time_only":  map[string]interface{}{"type": "boolean"},
				"created_at":     map[string]interface{}{"type": "date"},
			},
		},
	}
	b, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling gigs mapping to JSON: %w", err)
	}
	return string(b), nil
}

// CreateGigsIndexIfNotExists creates the gigs index with its mapping when it is missing.
func CreateGigsIndexIfNotExists(ctx context.Context, client *ESClientWrapper, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	res, err := esapi.IndicesExistsRequest{Index: []string{GigsIndexName}}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if gigs index exists: %w", err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Debug("Gigs index already exists", zap.String("index_name", GigsIndexName))
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("error checking if gigs index exists: status %s", res.Status())
	}

	mappingJSON, err := gigsMapping()
	if err != nil {
		return err
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: GigsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating gigs index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		_ = json.NewDecoder(createRes.Body).Decode(&errorBody)
		log.Error("Failed to create gigs index", zap.String("status", createRes.Status()), zap.Any("error_details", errorBody))
		return fmt.Errorf("failed to create gigs index: status %s", createRes.Status())
	}

	log.Info("Gigs index created", zap.String("index_name", GigsIndexName))
	return nil
}
