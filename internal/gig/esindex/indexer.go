// Package esindex keeps the gigs Elasticsearch index in step with the catalog.
package esindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gigmarket_backend/internal/gig"
	es "gigmarket_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Document is the indexed form of a gig.
type Document struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Slug                string     `json:"slug"`
	Price               float64    `json:"price"`
	Points              int64      `json:"points"`
	PaymentMethod       string     `json:"payment_method"`
	UserID              string     `json:"user_id"`
	Username            string     `json:"username"`
	ContactInstructions string     `json:"contact_instructions,omitempty"`
	OneTimeOnly         bool       `json:"one_time_only"`
	Status              string     `json:"status"`
	TakenBy             string     `json:"taken_by,omitempty"`
	TakenAt             *time.Time `json:"taken_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func ToDocument(g *gig.Gig) Document {
	return Document{
		ID:                  g.ID,
		Title:               g.Title,
		Description:         g.Description,
		Slug:                g.Slug,
		Price:               g.Price.InexactFloat64(),
		Points:              g.Points,
		PaymentMethod:       string(g.PaymentMethod),
		UserID:              g.UserID,
		Username:            g.Username,
		ContactInstructions: g.ContactInstructions,
		OneTimeOnly:         g.OneTimeOnly,
		Status:              string(g.Status),
		TakenBy:             g.TakenBy,
		TakenAt:             g.TakenAt,
		CreatedAt:           g.CreatedAt,
	}
}

func (d Document) ToGig() gig.Gig {
	return gig.Gig{
		ID:                  d.ID,
		Title:               d.Title,
		Description:         d.Description,
		Slug:                d.Slug,
		Price:               decimal.NewFromFloat(d.Price),
		Points:              d.Points,
		PaymentMethod:       gig.PaymentMethod(d.PaymentMethod),
		UserID:              d.UserID,
		Username:            d.Username,
		ContactInstructions: d.ContactInstructions,
		OneTimeOnly:         d.OneTimeOnly,
		Status:              gig.Status(d.Status),
		TakenBy:             d.TakenBy,
		TakenAt:             d.TakenAt,
		CreatedAt:           d.CreatedAt,
	}
}

type Indexer struct {
	client *es.ESClientWrapper
	index  string
	logger *zap.Logger
}

// New returns the Elasticsearch indexer, or the no-op one when no client is configured.
func New(client *es.ESClientWrapper, logger *zap.Logger) gig.Indexer {
	if client == nil {
		return gig.NewNoopIndexer()
	}
	return &Indexer{client: client, index: es.GigsIndexName, logger: logger.Named("gig_indexer")}
}

func readError(res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch %s: %s", res.Status(), strings.TrimSpace(string(body)))
}

func (i *Indexer) Index(ctx context.Context, g *gig.Gig) error {
	body, err := json.Marshal(ToDocument(g))
	if err != nil {
		return fmt.Errorf("encoding gig %s: %w", g.ID, err)
	}
	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: g.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("indexing gig %s: %w", g.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return readError(res)
	}
	return nil
}

// BulkIndex writes every gig with one _bulk request.
func (i *Indexer) BulkIndex(ctx context.Context, gigs []gig.Gig) error {
	if len(gigs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for idx := range gigs {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": i.index, "_id": gigs[idx].ID}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encoding bulk meta: %w", err)
		}
		if err := enc.Encode(ToDocument(&gigs[idx])); err != nil {
			return fmt.Errorf("encoding bulk document %s: %w", gigs[idx].ID, err)
		}
	}

	res, err := esapi.BulkRequest{Body: &buf}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("bulk indexing gigs: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return readError(res)
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding bulk response: %w", err)
	}
	if parsed.Errors {
		failed := 0
		for _, item := range parsed.Items {
			for _, result := range item {
				if result.Status >= 300 {
					failed++
				}
			}
		}
		return fmt.Errorf("bulk indexing: %d of %d gigs failed", failed, len(gigs))
	}
	i.logger.Info("Bulk indexed gigs", zap.Int("count", len(gigs)))
	return nil
}

// SearchBody builds the multi_match query over title, description and username.
func SearchBody(query string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "description", "username"},
				"fuzziness": "AUTO",
			},
		},
		"sort": []interface{}{"_score", map[string]interface{}{"created_at": "desc"}},
	}
}

func (i *Indexer) Search(ctx context.Context, query string, limit int) ([]gig.Gig, error) {
	body, err := json.Marshal(SearchBody(query, limit))
	if err != nil {
		return nil, fmt.Errorf("encoding search: %w", err)
	}
	res, err := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client.Client)
	if err != nil {
		return nil, fmt.Errorf("searching gigs: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, readError(res)
	}
	return DecodeHits(res.Body)
}

// DecodeHits converts a search response body into gigs.
func DecodeHits(r io.Reader) ([]gig.Gig, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	gigs := make([]gig.Gig, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		gigs = append(gigs, h.Source.ToGig())
	}
	return gigs, nil
}
