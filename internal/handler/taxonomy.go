package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trackday/internal/domain"
)

// CategoryResponse is one taxonomy category and its allowed values.
type CategoryResponse struct {
	Category string   `json:"category"`
	Values   []string `json:"values"`
}

// TaxonomyResponse is the body of GET /taxonomy/{kind}.
type TaxonomyResponse struct {
	Kind       string             `json:"kind"`
	Categories []CategoryResponse `json:"categories"`
}

// GetTaxonomy handles GET /taxonomy/{kind}, where kind is "track" or "event".
func (s *Server) GetTaxonomy(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.ParseTagKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, r, domain.ErrNotFound, "taxonomy kind")
		return
	}

	cats := s.tax.Categories(kind)
	resp := TaxonomyResponse{Kind: string(kind), Categories: make([]CategoryResponse, len(cats))}
	for i, c := range cats {
		resp.Categories[i] = CategoryResponse{Category: c.Name, Values: c.Values}
	}
	writeJSON(w, http.StatusOK, resp)
}
