package check

import (
	"fmt"

	"github.com/pkg/errors"
)

// message renders the optional caller-provided message: either a single value or a format
// string followed by its arguments.
func message(msgAndArgs []interface{}) string {
	switch {
	case len(msgAndArgs) == 0:
		return ""
	case len(msgAndArgs) == 1:
		if msg, ok := msgAndArgs[0].(string); ok {
			return msg
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprint(msgAndArgs...)
	}
}

// check returns nil when condition holds and otherwise an error built from the caller's message
// followed by the default message.
func check(condition bool, msgAndArgs []interface{}, defaultMsg string, args ...interface{}) error {
	if condition {
		return nil
	}
	detail := fmt.Sprintf(defaultMsg, args...)
	if msg := message(msgAndArgs); msg != "" {
		return errors.Errorf("%s: %s", msg, detail)
	}
	return errors.New(detail)
}

// True checks whether the condition is true.
func True(condition bool, msgAndArgs ...interface{}) error {
	return check(condition, msgAndArgs, "expected true, got false")
}

// NotEmpty checks whether the string is non-empty.
func NotEmpty(actual string, msgAndArgs ...interface{}) error {
	return check(actual != "", msgAndArgs, "expected a non-empty value")
}

// In checks whether the string is one of the expected values.
func In(actual string, expected []string, msgAndArgs ...interface{}) error {
	for _, value := range expected {
		if value == actual {
			return nil
		}
	}
	return check(false, msgAndArgs, "%q not in %v", actual, expected)
}

// GreaterThanOrEqualTo checks whether actual is at least minimum.
func GreaterThanOrEqualTo(actual, minimum int, msgAndArgs ...interface{}) error {
	return check(actual >= minimum, msgAndArgs, "%d is less than %d", actual, minimum)
}

// LessThan checks whether actual is strictly below bound.
func LessThan(actual, bound int, msgAndArgs ...interface{}) error {
	return check(actual < bound, msgAndArgs, "%d is not less than %d", actual, bound)
}
