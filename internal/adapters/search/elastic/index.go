package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"paw-connect/internal/ports/search"
)

const (
	DefaultIndex = "users"

	// ventana de resultados por defecto de Elasticsearch
	maxHits = 10000
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":       { "type": "keyword" },
      "username": { "type": "text" },
      "about_me": { "type": "text" }
    }
  }
}`

type Config struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
	Transport http.RoundTripper
}

// Index implementa search.Index sobre Elasticsearch.
type Index struct {
	es    *elasticsearch.Client
	index string
}

func New(cfg Config) (*Index, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("elastic: at least one address is required")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: new client: %w", err)
	}
	index := strings.TrimSpace(cfg.Index)
	if index == "" {
		index = DefaultIndex
	}
	return &Index{es: es, index: index}, nil
}

// Ping responde nil cuando el cluster está listo; lo usa el arranque para esperar.
func (i *Index) Ping(ctx context.Context) error {
	res, err := i.es.Ping(i.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("%w: ping status=%d", search.ErrUnavailable, res.StatusCode)
	}
	return nil
}

// EnsureIndex crea el índice si no existe. Tolera que otra instancia lo cree en paralelo.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	drain(res)
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("%w: exists status=%d", search.ErrUnavailable, res.StatusCode)
	}

	res, err = i.es.Indices.Create(i.index,
		i.es.Indices.Create.WithContext(ctx),
		i.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	defer drain(res)
	if !res.IsError() {
		return nil
	}

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode == http.StatusBadRequest && bytes.Contains(raw, []byte("resource_already_exists_exception")) {
		return nil
	}
	return fmt.Errorf("%w: create index status=%d body=%s", search.ErrUnavailable, res.StatusCode, raw)
}

// Upsert reemplaza el documento completo y espera al refresh para que sea visible de inmediato.
func (i *Index) Upsert(ctx context.Context, doc search.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := i.es.Index(i.index, bytes.NewReader(body),
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(doc.ID),
		i.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("%w: index status=%d", search.ErrUnavailable, res.StatusCode)
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source search.Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (i *Index) Search(ctx context.Context, query string) ([]search.Hit, error) {
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"query_string": map[string]any{
				"fields": []string{"username", "about_me"},
				"query":  WildcardQuery(query),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(body)),
		i.es.Search.WithSize(maxHits),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrUnavailable, err)
	}
	defer drain(res)
	if res.IsError() {
		return nil, fmt.Errorf("%w: search status=%d", search.ErrUnavailable, res.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("elastic: decode search: %w", err)
	}

	hits := make([]search.Hit, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		hits = append(hits, search.Hit{
			ID:       h.ID,
			Username: h.Source.Username,
			AboutMe:  h.Source.AboutMe,
		})
	}
	return hits, nil
}

// WildcardQuery arma "*term*" por palabra (OR por defecto de query_string),
// escapando los caracteres reservados. Vacío => "*".
func WildcardQuery(q string) string {
	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, "*"+escape(t)+"*")
	}
	return strings.Join(parts, " ")
}

const reserved = `+-=&|><!(){}[]^"~*?:\/`

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(reserved, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func drain(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
