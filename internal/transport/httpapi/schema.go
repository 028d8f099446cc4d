package httpapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"

	"mrcfield/internal/usecase/inspection"
)

type valueTyper interface {
	ValueType() reflect.Type
}

var (
	valueTyperType = reflect.TypeOf((*valueTyper)(nil)).Elem()
	timeType       = reflect.TypeOf(time.Time{})
)

// DraftSyncSchema describes the body accepted by POST /inspections/{id}/sync.
// Optional patch fields accept their value type or null.
func DraftSyncSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper:                     mapOptional,
	}
	schema := r.Reflect(&inspection.DraftSync{})
	schema.Title = "Inspection draft sync"
	return schema
}

func mapOptional(t reflect.Type) *jsonschema.Schema {
	if t.Kind() != reflect.Struct || !t.Implements(valueTyperType) {
		return nil
	}
	inner := reflect.Zero(t).Interface().(valueTyper).ValueType()
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			scalarSchema(inner),
			{Type: "null"},
		},
	}
}

func scalarSchema(t reflect.Type) *jsonschema.Schema {
	if t == timeType {
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	}
	switch t.Kind() {
	case reflect.Pointer:
		return scalarSchema(t.Elem())
	case reflect.String:
		return &jsonschema.Schema{Type: "string"}
	case reflect.Bool:
		return &jsonschema.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &jsonschema.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &jsonschema.Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &jsonschema.Schema{Type: "array", Items: scalarSchema(t.Elem())}
	default:
		return &jsonschema.Schema{}
	}
}

func (h *Handler) draftSyncSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(DraftSyncSchema())
}
