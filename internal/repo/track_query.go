package repo

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/pkordes/trackday/internal/filter"
)

// haversineSQL is the great-circle distance in km between the row's
// coordinates and a point. Placeholders: latitude, latitude, longitude.
const haversineSQL = `6371 * 2 * asin(sqrt(
	power(sin(radians(t.latitude - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(t.latitude)) *
	power(sin(radians(t.longitude - ?) / 2), 2)))`

func haversineKm(lat, lng float64) sq.Sqlizer {
	return sq.Expr(haversineSQL, lat, lat, lng)
}

var textColumns = map[filter.Field]string{
	filter.FieldName:     "t.name",
	filter.FieldLocation: "t.location",
}

var numericColumns = map[filter.Field]string{
	filter.FieldDistance: "t.distance",
}

// trackWhere translates a filter predicate into a squirrel condition over
// the tracks table aliased as t. Availability conditions become an EXISTS
// subquery on track_availability aliased as a.
func trackWhere(p filter.Predicate) (sq.Sqlizer, error) {
	switch n := p.(type) {
	case filter.All:
		and := sq.And{}
		for _, child := range n {
			c, err := trackWhere(child)
			if err != nil {
				return nil, err
			}
			and = append(and, c)
		}
		return and, nil

	case filter.Any:
		or := sq.Or{}
		for _, child := range n {
			c, err := trackWhere(child)
			if err != nil {
				return nil, err
			}
			or = append(or, c)
		}
		return or, nil

	case filter.ContainsFold:
		col, ok := textColumns[n.Field]
		if !ok {
			return nil, fmt.Errorf("no text column for field %q", n.Field)
		}
		return sq.ILike{col: "%" + escapeLike(n.Value) + "%"}, nil

	case filter.HasAllTags:
		return sq.Expr("t.tags @> ?", n.Tags), nil

	case filter.Compare:
		col, ok := numericColumns[n.Field]
		if !ok {
			return nil, fmt.Errorf("no numeric column for field %q", n.Field)
		}
		switch n.Op {
		case filter.OpGt:
			return sq.Gt{col: n.Value}, nil
		case filter.OpGte:
			return sq.GtOrEq{col: n.Value}, nil
		case filter.OpLte:
			return sq.LtOrEq{col: n.Value}, nil
		}
		return nil, fmt.Errorf("unsupported operator %q", n.Op)

	case filter.AnySlot:
		cond, err := slotWhere(n.Cond)
		if err != nil {
			return nil, err
		}
		inner, args, err := cond.ToSql()
		if err != nil {
			return nil, err
		}
		return sq.Expr("EXISTS (SELECT 1 FROM track_availability a WHERE a.track_id = t.id AND "+inner+")", args...), nil
	}
	return nil, fmt.Errorf("unsupported predicate %T", p)
}

// slotWhere translates a slot predicate over track_availability aliased as a.
// Days are stored as Monday-first indexes, so range checks are numeric.
func slotWhere(p filter.SlotPredicate) (sq.Sqlizer, error) {
	switch n := p.(type) {
	case filter.SlotAny:
		or := sq.Or{}
		for _, child := range n {
			c, err := slotWhere(child)
			if err != nil {
				return nil, err
			}
			or = append(or, c)
		}
		return or, nil

	case filter.DayContains:
		day := int16(n.Day)
		return sq.And{sq.LtOrEq{"a.start_day": day}, sq.GtOrEq{"a.end_day": day}}, nil

	case filter.DayOverlap:
		return sq.And{sq.LtOrEq{"a.start_day": int16(n.To)}, sq.GtOrEq{"a.end_day": int16(n.From)}}, nil
	}
	return nil, fmt.Errorf("unsupported slot predicate %T", p)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
