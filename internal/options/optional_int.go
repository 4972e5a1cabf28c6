package options

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OptionalInt is an integer option without a default. Its zero value is unset.
type OptionalInt struct {
	value *int
}

// NewOptionalInt returns a set OptionalInt.
func NewOptionalInt(v int) OptionalInt {
	return OptionalInt{value: &v}
}

// IsSet reports whether a value was provided.
func (o OptionalInt) IsSet() bool {
	return o.value != nil
}

// Get returns the value and whether it was provided.
func (o OptionalInt) Get() (int, bool) {
	if o.value == nil {
		return 0, false
	}
	return *o.value, true
}

// String returns the decimal value, or "None" when unset.
func (o OptionalInt) String() string {
	if o.value == nil {
		return "None"
	}
	return strconv.Itoa(*o.value)
}

// Set parses s as a decimal integer; an empty string unsets the value.
func (o *OptionalInt) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		o.value = nil
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return errors.Errorf("invalid integer %q", s)
	}
	o.value = &v
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.value)
}

// UnmarshalJSON implements the json.Unmarshaler interface. It accepts null, numbers, and
// strings holding a decimal integer (as produced by flags and environment variables).
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		o.value = nil
		return nil
	case float64:
		if v != float64(int(v)) {
			return errors.Errorf("invalid integer %v", v)
		}
		i := int(v)
		o.value = &i
		return nil
	case string:
		return o.Set(v)
	default:
		return errors.Errorf("invalid integer %s", string(data))
	}
}
