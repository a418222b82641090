package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
)

// pathUUID binds the chi URL parameter name as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, &paramError{name: name, err: err}
	}
	return id, nil
}

// pagination binds ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func pagination(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	q := r.URL.Query()
	if err := bindQuery(q, "page", false, &page); err != nil {
		return domain.PaginationParams{}, err
	}
	if err := bindQuery(q, "limit", false, &limit); err != nil {
		return domain.PaginationParams{}, err
	}
	return domain.NewPaginationParams(page, limit), nil
}

// parseTrackFilter assembles a track search from query parameters:
//
//	search=spa
//	tags=circuit,tarmac        or tags=["circuit","tarmac"]
//	min_length=3&max_length=8  (minLength/maxLength also accepted)
//	days=Saturday,Sunday       → single-day availability
//	from=Monday&to=Friday      → range availability
//
// It never fails. Bounds that are not numbers and unknown day names are
// dropped, which widens the search rather than rejecting it.
func parseTrackFilter(q url.Values) filter.TrackFilter {
	f := filter.TrackFilter{
		Search:    q.Get("search"),
		Tags:      listParam(q, "tags"),
		MinLength: floatParam(q, "min_length", "minLength"),
		MaxLength: floatParam(q, "max_length", "maxLength"),
	}

	if days := listParam(q, "days"); len(days) > 0 {
		single := filter.SingleDay{}
		for _, name := range days {
			if d, err := domain.ParseWeekday(name); err == nil {
				single.Days = append(single.Days, d)
			}
		}
		f.Availability = single
	} else if q.Has("from") || q.Has("to") {
		f.Availability = filter.DayRange{From: dayParam(q, "from"), To: dayParam(q, "to")}
	}
	return f
}

// listParam reads a list given as a JSON array, a comma-separated string, or
// repeated keys. A value starting with "[" that is not a JSON string array
// contributes nothing.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		raw = strings.TrimSpace(raw)
		if strings.HasPrefix(raw, "[") {
			var list []string
			if err := json.Unmarshal([]byte(raw), &list); err == nil {
				out = append(out, list...)
			}
			continue
		}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// floatParam returns the first of keys that parses as a float, or nil.
func floatParam(q url.Values, keys ...string) *float64 {
	for _, key := range keys {
		v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
		if err == nil {
			return &v
		}
	}
	return nil
}

func dayParam(q url.Values, key string) *domain.Weekday {
	d, err := domain.ParseWeekday(q.Get(key))
	if err != nil {
		return nil
	}
	return &d
}

// bindQuery binds one form-style query parameter into dest.
func bindQuery(q url.Values, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, q, dest); err != nil {
		return &paramError{name: name, err: err}
	}
	return nil
}
