package models

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

type Model interface {
	TableName() string
	GetID() uuid.UUID
	EmptySlice() interface{}
}

// go-playground/validator suggests using a single instance of the validator,
// so the models share this one.
var validate = validator.New()

// ValidateModel validates a model using the go-playground/validator package. It
// returns an error if the provided argument does not implement the Model
// interface.
func ValidateModel(model interface{}) error {
	m, ok := model.(Model)
	if !ok {
		return fmt.Errorf("expected model, got %T", model)
	}

	if err := validate.Struct(m); err != nil {
		return err
	}
	return nil
}

// GetValsFromModel returns the field values of a model as a slice of
// interfaces, in the order of the model's column names. It is used for
// extracting values from the model and writing them to the database. Fields
// tagged readOnly are skipped when excludeReadOnlyFields is set, which is what
// updates want: ids and creation times are never rewritten.
func GetValsFromModel(m Model, excludeReadOnlyFields bool) []interface{} {
	val := reflect.ValueOf(m)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()
	numFields := val.NumField()

	fieldMap := make(map[string]interface{})
	for i := 0; i < numFields; i++ {
		field := typ.Field(i)

		if excludeReadOnlyFields && field.Tag.Get("readOnly") == "true" {
			continue
		}

		dbTag := field.Tag.Get("db")
		fieldMap[dbTag] = val.Field(i).Interface()
	}

	columnNames := GetColumnNames(m, excludeReadOnlyFields)
	vals := make([]interface{}, len(columnNames))
	for i, cn := range columnNames {
		vals[i] = fieldMap[cn]
	}

	return vals
}

// ScanRowToModel scans a single SQL row into a given model. It takes a model
// and passes a slice of pointers to the model's fields to the sql.Row's Scan
// method. It returns an error if the scan fails or the model is not a pointer.
// The row must select the model's columns in field order (see GetColumnNames).
func ScanRowToModel(m Model, r *sql.Row) error {
	val := reflect.ValueOf(m)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("expected pointer to model, got %T", m)
	}
	val = val.Elem()
	typ := val.Type()

	fieldPtrs := make([]interface{}, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		fieldPtrs[i] = val.Field(i).Addr().Interface()
	}

	if err := r.Scan(fieldPtrs...); err != nil {
		return err
	}
	return nil
}

func ScanRowsToSliceOfModels(m Model, rows *sql.Rows, expectedRows int) (interface{}, error) {
	// Obtain the slice of models using the EmptySlice method, which returns a
	// pointer to an empty slice of the model type as an interface{}
	modelsSlice := m.EmptySlice()

	// Dereference the interface wrapper with Elem(), and make sure we have a slice
	sliceVal := reflect.ValueOf(modelsSlice).Elem()
	if sliceVal.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected slice, got %s", sliceVal.Kind())
	}

	elemType := sliceVal.Type().Elem()

	// Best guess at the capacity, based on the number of rows the caller
	// expects (e.g. the limit parameter of a URL query).
	initialCapacity := determineInitialCapacity(expectedRows)
	sliceVal.Set(reflect.MakeSlice(sliceVal.Type(), 0, initialCapacity))

	for rows.Next() {
		model := reflect.New(elemType).Elem()

		fieldPtrs := make([]interface{}, model.NumField())
		for i := 0; i < model.NumField(); i++ {
			fieldPtrs[i] = model.Field(i).Addr().Interface()
		}

		if err := rows.Scan(fieldPtrs...); err != nil {
			return nil, err
		}

		sliceVal.Set(reflect.Append(sliceVal, model))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return modelsSlice, nil
}

// GetColumnNames returns the model's column names as a slice of strings, in
// field order.
func GetColumnNames(m Model, excludeReadOnlyFields bool) []string {
	val := reflect.ValueOf(m)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()
	var columnNames []string

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("db")

		if excludeReadOnlyFields && field.Tag.Get("readOnly") == "true" {
			continue
		}

		columnNames = append(columnNames, tag)
	}
	return columnNames
}

// Returns a map of the model's field tags where key is JSON and value is DB.
// Fields hidden from JSON are left out.
func MapJsonTagsToDB(m Model) map[string]string {
	val := reflect.ValueOf(m)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()
	tagMap := make(map[string]string)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		jsonTag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}
		tagMap[jsonTag] = field.Tag.Get("db")
	}
	return tagMap
}

// Helper function to determine the initial capacity based on expected rows
func determineInitialCapacity(expectedRows int) int {
	switch {
	case expectedRows <= 10:
		return 10
	case expectedRows <= 25:
		return 20
	case expectedRows <= 50:
		return 35
	case expectedRows <= 100:
		return 75
	case expectedRows <= 200:
		return 150
	case expectedRows <= 300:
		return 250
	case expectedRows <= 500:
		return 400
	case expectedRows <= 1000:
		return 900
	default:
		return 1000
	}
}
