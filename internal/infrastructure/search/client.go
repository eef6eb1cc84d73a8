package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const requestTimeout = 3 * time.Second

// index wraps one Elasticsearch index. A nil client turns every call into a no-op.
type index struct {
	es   *elasticsearch.Client
	name string
}

func (ix index) enabled() bool { return ix.es != nil && ix.name != "" }

func (ix index) put(ctx context.Context, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: ix.name, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, ix.es)
	if err != nil {
		return err
	}
	return checkResponse(res, "index")
}

func (ix index) delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: ix.name, DocumentID: id}.Do(c, ix.es)
	if err != nil {
		return err
	}
	if res.StatusCode == 404 {
		_ = res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete")
}

func (ix index) deleteByQuery(ctx context.Context, query map[string]any) error {
	b, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteByQueryRequest{Index: []string{ix.name}, Body: bytes.NewReader(b), Conflicts: "proceed"}.Do(c, ix.es)
	if err != nil {
		return err
	}
	return checkResponse(res, "delete_by_query")
}

// searchIDs runs body and returns the matching document ids in score order.
func (ix index) searchIDs(ctx context.Context, body map[string]any) ([]string, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := ix.es.Search(
		ix.es.Search.WithContext(c),
		ix.es.Search.WithIndex(ix.name),
		ix.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == 404 {
		// index not created yet
		return []string{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("es %s: %s: %s", op, res.Status(), bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func clampSize(size int) int {
	if size <= 0 || size > 50 {
		return 10
	}
	return size
}
