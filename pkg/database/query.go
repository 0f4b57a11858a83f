package database

import (
	"strings"

	"github.com/pkg/errors"

	"vidtube.com/pkg/store"
)

// where renders f as a SQL condition over t. Column names are checked
// against the table schema before being quoted.
func (t *table) where(f store.Filter) (string, []interface{}, error) {
	if len(f) == 0 {
		return "1 = 1", nil, nil
	}
	parts := make([]string, 0, len(f))
	var args []interface{}
	for _, c := range f {
		sql, a, err := t.cond(c)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args, nil
}

func (t *table) cond(c store.Cond) (string, []interface{}, error) {
	if c.Op == store.OpOr {
		if len(c.Any) == 0 {
			return "1 = 0", nil, nil
		}
		alts := make([]string, 0, len(c.Any))
		var args []interface{}
		for _, alt := range c.Any {
			sql, a, err := t.where(alt)
			if err != nil {
				return "", nil, err
			}
			alts = append(alts, "("+sql+")")
			args = append(args, a...)
		}
		return "(" + strings.Join(alts, " OR ") + ")", args, nil
	}

	col, err := t.quote(c.Field)
	if err != nil {
		return "", nil, err
	}
	switch c.Op {
	case store.OpIn:
		values, _ := c.Value.([]string)
		if len(values) == 0 {
			return "1 = 0", nil, nil
		}
		return col + " IN ?", []interface{}{values}, nil
	case store.OpNe:
		if c.Value == nil {
			return col + " IS NOT NULL", nil, nil
		}
		return "(" + col + " <> ? OR " + col + " IS NULL)", []interface{}{c.Value}, nil
	default:
		if c.Value == nil {
			return col + " IS NULL", nil, nil
		}
		return col + " = ?", []interface{}{c.Value}, nil
	}
}

func (t *table) quote(field string) (string, error) {
	if _, ok := t.columns[field]; !ok {
		return "", errors.Errorf("%s has no column %q", t.name, field)
	}
	return "`" + field + "`", nil
}
