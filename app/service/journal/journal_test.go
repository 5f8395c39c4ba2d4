package journal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndEntries(t *testing.T) {
	j := &Journal{}

	j.Append("started")
	j.Append("fetching %s", "https://youtu.be/dQw4w9WgXcQ")

	entries := j.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "started", entries[0].Message)
	require.Equal(t, "fetching https://youtu.be/dQw4w9WgXcQ", entries[1].Message)
	require.False(t, entries[0].Timestamp.IsZero())
	require.False(t, entries[1].Timestamp.Before(entries[0].Timestamp))
}

func TestBounded(t *testing.T) {
	j := &Journal{}

	for i := 0; i < maxEntries+50; i++ {
		j.Append("line %d", i)
	}

	entries := j.Entries()
	require.Len(t, entries, maxEntries)
	require.Equal(t, fmt.Sprintf("line %d", maxEntries+49), entries[len(entries)-1].Message)
}
