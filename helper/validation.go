package helper

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidateStructIsPopulated returns an error listing the errorTxt tag of every field tagged
// mandatory:"yes" that holds its zero value. Nested structs are checked too.
func ValidateStructIsPopulated(cfg interface{}) error {
	missing := unsetMandatoryFields(reflect.ValueOf(cfg), nil)
	if len(missing) > 0 {
		return fmt.Errorf("please supply values for %v", strings.Join(missing, ", "))
	}
	return nil
}

func unsetMandatoryFields(val reflect.Value, missing []string) []string {
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return missing
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return missing
	}
	typ := val.Type()
	for idx := 0; idx < val.NumField(); idx++ {
		sf := typ.Field(idx)
		if !sf.IsExported() {
			continue
		}
		f := val.Field(idx)
		if f.Kind() == reflect.Struct {
			missing = unsetMandatoryFields(f, missing)
			continue
		}
		if sf.Tag.Get("mandatory") == "yes" && f.IsZero() {
			missing = append(missing, sf.Tag.Get("errorTxt"))
		}
	}
	return missing
}
