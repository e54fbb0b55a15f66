package console

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamReader(t *testing.T) {
	r := NewStreamReader(strings.NewReader("create User\r\n\nall"))

	for _, want := range []string{"create User", "", "all"} {
		line, err := r.ReadLine("(hbnb) ")
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := r.ReadLine("(hbnb) ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamReaderLongLine(t *testing.T) {
	long := "update User 1234 bio \"" + strings.Repeat("x", 70000) + "\""
	r := NewStreamReader(strings.NewReader(long + "\nquit\n"))

	line, err := r.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, long, line)

	line, err = r.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "quit", line)

	_, err = r.ReadLine("")
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.ReadLine("")
	assert.ErrorIs(t, err, io.EOF)
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"create"}, complete("cr"))
	assert.Contains(t, complete("show Us"), "show User")
	assert.Equal(t, []string{"Place", "Place.all(", "Place.count(", "Place.create(", "Place.destroy(", "Place.show(", "Place.update("}, complete("Pl"))
	assert.Equal(t, []string{"Review.count(", "Review.create("}, complete("Review.c"))
	assert.Empty(t, complete("zzz"))
}
