package check

import (
	"testing"

	"gotest.tools/assert"
)

type pointerReceiver struct {
	A bool
}

func (t *pointerReceiver) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

type valueReceiver struct {
	A bool
}

func (t valueReceiver) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

type outer struct {
	Inner  valueReceiver
	Ptr    *pointerReceiver
	Unset  *valueReceiver
	Any    interface{}
	hidden valueReceiver
}

func TestValidateWalksFields(t *testing.T) {
	err := Validate(outer{
		Inner:  valueReceiver{A: true},
		Ptr:    &pointerReceiver{A: false},
		Any:    valueReceiver{A: false},
		hidden: valueReceiver{A: false},
	})
	assert.ErrorContains(t, err, "2 errors found")
	assert.ErrorContains(t, err, "error found at root.Ptr: field A must be true")
	assert.ErrorContains(t, err, "error found at root.Any: field A must be true")

	assert.NilError(t, Validate(outer{Inner: valueReceiver{A: true}}))
	assert.NilError(t, Validate(nil))
}
