package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"event-planner/data/models"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// queryClauses is the parsed form of a list request's query parameters.
type queryClauses struct {
	// where holds parameterized conditions, joined with AND by the caller.
	where  []string
	order  string
	values []interface{}
	limit  int
	// next is the first placeholder index not used by the clauses.
	next int
}

// tail renders the ORDER BY and pagination part of the query.
func (qc queryClauses) tail() string {
	return fmt.Sprintf("ORDER BY %s LIMIT $%d OFFSET $%d", qc.order, qc.next, qc.next+1)
}

// buildQueryClauses constructs parameterized sql clauses from the given query
// parameters. Placeholders are numbered from phIndex so the clauses can follow
// conditions the caller has already bound. limit and offset are appended last
// to the returned values.
func buildQueryClauses(queryParams map[string]string, m models.Model, phIndex int, defaultSort string) (queryClauses, error) {
	jsonMap := models.MapJsonTagsToDB(m)

	// Filtering
	whereParts, values, phIndex, err := buildWhereClause(queryParams, phIndex, jsonMap)
	if err != nil {
		return queryClauses{}, err
	}

	// Sorting
	sortCol, order, err := buildSortingClause(queryParams, jsonMap, defaultSort)
	if err != nil {
		return queryClauses{}, err
	}

	// Pagination
	limit, offset, err := buildPaginationClause(queryParams)
	if err != nil {
		return queryClauses{}, err
	}
	values = append(values, limit, offset)

	return queryClauses{
		where:  whereParts,
		order:  fmt.Sprintf("%s %s, id %s", sortCol, order, order),
		values: values,
		limit:  limit,
		next:   phIndex,
	}, nil
}

// filter is a single parsed search condition.
type filter struct {
	operator string
	column   string
	values   []string
}

// parseFilters parses every search condition in queryParams, in a stable key
// order so placeholder numbering does not depend on map iteration.
func parseFilters(queryParams map[string]string, jsonMap map[string]string) ([]filter, error) {
	keys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		// Skip these for later handling
		if key == "sortBy" || key == "limit" || key == "offset" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filters := make([]filter, 0, len(keys))
	for _, key := range keys {
		operator, dbColumn, value, err := parseOperatorAndKey(key, queryParams[key], jsonMap)
		if err != nil {
			return nil, err
		}

		f := filter{operator: operator, column: dbColumn, values: []string{value}}
		// The IN operator takes a list of values of variable length (e.g.
		// status_anyOf=LIVE,UPCOMING)
		if operator == "IN" {
			f.values = strings.Split(value, ",")
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// buildWhereClause constructs the parameterized conditions of a WHERE clause.
// It returns the condition parts, the values to be passed alongside the query,
// and the next free placeholder index.
func buildWhereClause(queryParams map[string]string, phIndex int, jsonMap map[string]string) (whereParts []string, values []interface{}, placeholderIndex int, err error) {
	filters, err := parseFilters(queryParams, jsonMap)
	if err != nil {
		return nil, nil, 0, err
	}

	whereParts = []string{}
	values = []interface{}{}
	for _, f := range filters {
		if f.operator == "IN" {
			whereParts = append(whereParts, fmt.Sprintf("%s IN (%s)", f.column, placeholders(phIndex, len(f.values))))
			for _, v := range f.values {
				values = append(values, v)
			}
			phIndex += len(f.values)
			continue
		}

		whereParts = append(whereParts, fmt.Sprintf("%s %s $%d", f.column, f.operator, phIndex))
		values = append(values, f.values[0])
		phIndex++
	}

	return whereParts, values, phIndex, nil
}

// parseOperatorAndKey determines the SQL operator and strips the operator
// suffix from the key. It returns the operator, the key's database column
// mapping, and the modified value (if applicable).
func parseOperatorAndKey(key, value string, jsonMap map[string]string) (operator, dbColumn string, modifiedValue string, err error) {
	operator = "="
	modifiedValue = value

	if strings.HasSuffix(key, "_ne") {
		operator = "!="
		key = strings.TrimSuffix(key, "_ne")

	} else if strings.HasSuffix(key, "_lt") {
		operator = "<"
		key = strings.TrimSuffix(key, "_lt")

	} else if strings.HasSuffix(key, "_gt") {
		operator = ">"
		key = strings.TrimSuffix(key, "_gt")

	} else if strings.HasSuffix(key, "_lte") {
		operator = "<="
		key = strings.TrimSuffix(key, "_lte")

	} else if strings.HasSuffix(key, "_gte") {
		operator = ">="
		key = strings.TrimSuffix(key, "_gte")

	} else if strings.HasSuffix(key, "_contains") {
		operator = "ILIKE"
		key = strings.TrimSuffix(key, "_contains")
		modifiedValue = "%" + value + "%"

	} else if strings.HasSuffix(key, "_anyOf") {
		operator = "IN"
		key = strings.TrimSuffix(key, "_anyOf")
	}

	if err := validateQueryParam(key, jsonMap); err != nil {
		return "", "", "", err
	}

	// Map the JSON tag to the DB column name and return that for the query
	dbColumn = jsonMap[key]

	return operator, dbColumn, modifiedValue, nil
}

func buildSortingClause(queryParams map[string]string, jsonMap map[string]string, defaultSort string) (string, string, error) {
	sort := queryParams["sortBy"]
	order := "ASC"
	if strings.HasPrefix(sort, "-") {
		order = "DESC"
		sort = strings.TrimPrefix(sort, "-")
	}
	if sort == "" {
		sort = defaultSort
	}

	if err := validateQueryParam(sort, jsonMap); err != nil {
		return "", "", fmt.Errorf("invalid sort value: %v", sort)
	}

	sort = jsonMap[sort]
	return sort, order, nil
}

func buildPaginationClause(queryParams map[string]string) (int, int, error) {
	limit := defaultLimit
	offset := 0
	if l, ok := queryParams["limit"]; ok {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("pagination err; limit must be a positive number: %q", l)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	if o, ok := queryParams["offset"]; ok {
		var err error
		offset, err = strconv.Atoi(o)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("pagination err; offset must be a non-negative number: %q", o)
		}
	}
	return limit, offset, nil
}

func validateQueryParam(key string, jsonMap map[string]string) error {
	if jsonMap[key] == "" {
		return fmt.Errorf("invalid query parameter: %s", key)
	}
	return nil
}
