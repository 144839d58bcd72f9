package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPanicError_UnwrapsErrorCause(t *testing.T) {
	cause := errors.New("boom")
	e := &UserPanicError{Recovered: cause}

	assert.ErrorIs(t, e, cause)
}

func TestUserPanicError_UnwrapNilForNonError(t *testing.T) {
	e := &UserPanicError{Recovered: "not an error"}
	assert.Nil(t, e.Unwrap())
}

func TestProtocolViolationError_MessageNamesTaskAndOperation(t *testing.T) {
	e := &ProtocolViolationError{TaskID: 3, TaskName: "a", Operation: "inner"}
	assert.Contains(t, e.Error(), "task 3")
	assert.Contains(t, e.Error(), "inner")
}
