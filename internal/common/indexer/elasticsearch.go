package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// indexMapping keeps fetched_at as a keyword because its layout changes
// when the dataset is re-stamped
const indexMapping = `{
	"settings": {
		"analysis": {
			"analyzer": {
				"folding_analyzer": {
					"type": "custom",
					"tokenizer": "standard",
					"filter": ["lowercase", "asciifolding"]
				}
			}
		}
	},
	"mappings": {
		"properties": {
			"job_id": {"type": "keyword"},
			"job_title": {
				"type": "text",
				"analyzer": "folding_analyzer",
				"fields": {"keyword": {"type": "keyword"}}
			},
			"company": {
				"type": "text",
				"analyzer": "folding_analyzer",
				"fields": {"keyword": {"type": "keyword"}}
			},
			"skills": {"type": "keyword"},
			"location": {"type": "keyword"},
			"url": {"type": "keyword"},
			"fetched_at": {"type": "keyword"},
			"source": {"type": "keyword"},
			"experience_level": {"type": "keyword"},
			"num_skills": {"type": "integer"}
		}
	}
}`

// ElasticsearchIndexer mirrors the dataset into an Elasticsearch index
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// NewElasticsearchIndexer creates a new Elasticsearch indexer
func NewElasticsearchIndexer(ctx context.Context, addresses []string, indexName string, logger *slog.Logger) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	// Check connection
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	if indexName == "" {
		indexName = "jobs"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
		logger:    logger.With("sink", "elasticsearch", "index", indexName),
	}, nil
}

func (i *ElasticsearchIndexer) Name() string {
	return "elasticsearch"
}

// Replace empties the index and bulk indexes jobs keyed by job_id
func (i *ElasticsearchIndexer) Replace(ctx context.Context, jobs []domain.CleanedJob) error {
	if err := i.EnsureIndex(ctx); err != nil {
		return err
	}
	if err := i.clear(ctx); err != nil {
		return err
	}
	return i.BulkIndex(ctx, jobs)
}

func (i *ElasticsearchIndexer) clear(ctx context.Context) error {
	res, err := i.client.DeleteByQuery(
		[]string{i.indexName},
		strings.NewReader(`{"query": {"match_all": {}}}`),
		i.client.DeleteByQuery.WithContext(ctx),
		i.client.DeleteByQuery.WithConflicts("proceed"),
		i.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete by query error: %s", res.Status())
	}
	return nil
}

// BulkIndex indexes multiple jobs at once
func (i *ElasticsearchIndexer) BulkIndex(ctx context.Context, jobs []domain.CleanedJob) error {
	if len(jobs) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, job := range jobs {
		// Meta line
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.indexName,
				"_id":    job.JobID,
			},
		}
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal meta %s: %w", job.JobID, err)
		}

		// Document line
		docBytes, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshal job %s: %w", job.JobID, err)
		}

		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		i.client.Bulk.WithContext(ctx),
		i.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	// Parse response to check for individual errors
	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		failed := 0
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				failed++
				i.logger.Warn("bulk index error",
					"job_id", item.Index.ID, "type", item.Index.Error.Type, "reason", item.Index.Error.Reason)
			}
		}
		return fmt.Errorf("bulk index: %d of %d documents failed", failed, len(jobs))
	}

	return nil
}

// EnsureIndex creates the index with its mapping if it doesn't exist
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithContext(ctx),
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}

// Close is a no-op; the HTTP transport holds no exclusive resources
func (i *ElasticsearchIndexer) Close() error {
	return nil
}
