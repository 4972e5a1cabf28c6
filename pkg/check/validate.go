package check

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Validatable is implemented by option sets that can check their own fields.
type Validatable interface {
	Validate() []error
}

// ValidationError collects every failure found by Validate.
type ValidationError struct {
	Errs []error
}

func (v ValidationError) Error() string {
	msgs := make([]string, len(v.Errs))
	for i, err := range v.Errs {
		msgs[i] = err.Error()
	}
	sort.Strings(msgs)
	return fmt.Sprintf("invalid configuration, %d errors found:\n\t%s", len(msgs),
		strings.Join(msgs, "\n\t"))
}

// Validate runs the Validate method of v and of every exported struct field beneath it,
// following pointers. It returns nil or a ValidationError.
func Validate(v interface{}) error {
	var errs []error
	walk(reflect.ValueOf(v), "root", func(path string, target Validatable) {
		for _, err := range target.Validate() {
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "error found at %s", path))
			}
		}
	})
	if len(errs) == 0 {
		return nil
	}
	return ValidationError{Errs: errs}
}

func walk(v reflect.Value, path string, visit func(string, Validatable)) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return
	}

	if v.Kind() == reflect.Struct {
		for i := 0; i < v.NumField(); i++ {
			if field := v.Type().Field(i); field.IsExported() {
				walk(v.Field(i), path+"."+field.Name, visit)
			}
		}
	}

	// Pointer receivers are only in the method set of an addressable copy.
	addressable := reflect.New(v.Type())
	addressable.Elem().Set(v)
	if target, ok := addressable.Interface().(Validatable); ok {
		visit(path, target)
	}
}
