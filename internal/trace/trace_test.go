package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tr := Trace{
		{TaskID: 1, TaskName: "a", Operation: "read"},
		{TaskID: 2, TaskName: "b", Operation: "write"},
	}

	parsed, err := Parse(tr.String())
	require.NoError(t, err)
	assert.Equal(t, tr, parsed)
}

func TestString_Empty(t *testing.T) {
	assert.Equal(t, "", Trace(nil).String())
}

func TestParse_SkipsBlankLines(t *testing.T) {
	parsed, err := Parse("1:a/read\n\n2:b/write\n\n")
	require.NoError(t, err)
	assert.Equal(t, Trace{
		{TaskID: 1, TaskName: "a", Operation: "read"},
		{TaskID: 2, TaskName: "b", Operation: "write"},
	}, parsed)
}

func TestParse_MissingColon(t *testing.T) {
	_, err := Parse("1a/read")
	assert.Error(t, err)
}

func TestParse_MissingSlash(t *testing.T) {
	_, err := Parse("1:aread")
	assert.Error(t, err)
}

func TestParse_InvalidTaskID(t *testing.T) {
	_, err := Parse("x:a/read")
	assert.Error(t, err)
}

func TestParse_NameContainingSlash(t *testing.T) {
	// Operation names may themselves contain '/'; only the first '/' after
	// the colon separates name from operation.
	parsed, err := Parse("1:a/read/write")
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "a", parsed[0].TaskName)
	assert.Equal(t, "read/write", parsed[0].Operation)
}
