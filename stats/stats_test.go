package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndReset(t *testing.T) {
	var op Op
	start := time.Now().Add(-time.Millisecond)
	op.Record(start)
	op.Record(start)

	assert.Equal(t, uint32(2), op.Count())
	assert.Greater(t, op.MicrosPerOp(), float64(0))

	op.Reset()
	assert.Equal(t, uint32(0), op.Count())
	assert.Equal(t, float64(0), op.MicrosPerOp())
}

func TestFormatTable(t *testing.T) {
	ops := make([]Op, 2)
	ops[0].Record(time.Now())

	out := FormatTable([]string{"READ", "WRITE"}, ops)
	assert.True(t, strings.Contains(out, "READ"))
	assert.True(t, strings.Contains(out, "WRITE"))
	assert.True(t, strings.Contains(out, "total"))
}

func TestMismatchedListsPanic(t *testing.T) {
	assert.Panics(t, func() {
		FormatTable([]string{"A"}, make([]Op, 2))
	})
}
