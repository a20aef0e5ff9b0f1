package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Limits for a single search request.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params configures a product search.
type Params struct {
	Query       string
	Category    string // Exact category ID filter
	InStockOnly bool
	Limit       int
	Offset      int
}

// Result is an ordered list of matching product IDs.
type Result struct {
	Query      string         `json:"query"`
	Total      uint64         `json:"total"`
	TookMs     int64          `json:"took_ms"`
	IDs        []string       `json:"ids"`
	Categories map[string]int `json:"categories,omitempty"` // Matches per category ID
}

// Search runs a query; results are in score order.
func (s *ProductIndex) Search(ctx context.Context, params Params) (*Result, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := max(params.Offset, 0)

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, offset, false)
	req.SortBy([]string{"-_score", "_id"})
	req.AddFacet("categories", bleve.NewFacetRequest("category", 50))

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		IDs:    make([]string, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		out.IDs = append(out.IDs, hit.ID)
	}
	if facet, ok := res.Facets["categories"]; ok && facet.Terms != nil {
		out.Categories = make(map[string]int)
		for _, term := range facet.Terms.Terms() {
			out.Categories[term.Term] = term.Count
		}
	}
	return out, nil
}

// buildSearchQuery matches name (boosted), category name and description,
// tolerates one typo per word and treats the last word as a prefix.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	text := fold(strings.TrimSpace(params.Query))
	if text != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(text)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		categoryMatch := bleve.NewMatchQuery(text)
		categoryMatch.SetField("category_name")
		categoryMatch.SetBoost(1.5)
		textQueries = append(textQueries, categoryMatch)

		descMatch := bleve.NewMatchQuery(text)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		words := strings.Fields(text)
		for _, w := range words {
			if len(w) < 4 {
				continue
			}
			fuzzy := bleve.NewFuzzyQuery(w)
			fuzzy.SetFuzziness(1)
			fuzzy.SetField("name")
			fuzzy.SetBoost(0.8)
			textQueries = append(textQueries, fuzzy)
		}

		if last := words[len(words)-1]; len(last) >= 2 {
			prefix := bleve.NewPrefixQuery(last)
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Category != "" {
		cq := bleve.NewTermQuery(params.Category)
		cq.SetField("category")
		queries = append(queries, cq)
	}

	if params.InStockOnly {
		sq := bleve.NewBoolFieldQuery(true)
		sq.SetField("in_stock")
		queries = append(queries, sq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
