package entity

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm/schema"
)

// UUID columns must use a type both postgres and mysql can create.
func TestUUIDColumnsArePortable(t *testing.T) {
	uuidType := reflect.TypeOf(uuid.UUID{})
	cache := &sync.Map{}
	seen := 0
	for _, model := range Models() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse %T: %v", model, err)
		}
		for _, field := range s.Fields {
			typ := field.FieldType
			if typ.Kind() == reflect.Ptr {
				typ = typ.Elem()
			}
			if typ != uuidType {
				continue
			}
			seen++
			if field.DataType != "char(36)" {
				t.Errorf("%s.%s: data type %q, want char(36)", s.Name, field.Name, field.DataType)
			}
		}
	}
	if seen < 3 {
		t.Fatalf("found %d uuid columns, want at least 3", seen)
	}
}
