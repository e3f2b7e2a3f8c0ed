package framfs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framtag/framfs/fram"
)

func TestOpNamesComplete(t *testing.T) {
	assert.Equal(t, numOps, len(opNames))
}

func TestWriteOpStats(t *testing.T) {
	fs, err := Format(fram.NewMemStore(fram.DefaultSize))
	require.NoError(t, err)
	require.NoError(t, fs.CreateActive("f", TypeRawData))
	require.NoError(t, fs.Append([]byte{1}))

	var buf bytes.Buffer
	fs.WriteOpStats(&buf)
	out := buf.String()
	assert.True(t, strings.Contains(out, "APPEND"))
	assert.True(t, strings.Contains(out, "CREATE"))

	fs.ResetOpStats()
	assert.Equal(t, uint32(0), fs.stats[opAppend].Count())
}
