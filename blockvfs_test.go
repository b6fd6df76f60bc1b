package blockvfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndBasicUse(t *testing.T) {
	v, err := Create(nil)
	require.NoError(t, err)

	require.NoError(t, v.Client.Mkdir("/docs"))
	require.NoError(t, v.Client.Create("/docs/readme.txt"))

	fd, err := v.Client.Open("/docs/readme.txt")
	require.NoError(t, err)

	n, err := v.Client.Write(fd, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	require.NoError(t, v.Client.Close(fd))
}

func TestSnapshotAttachRoundTrip(t *testing.T) {
	v, err := Create(nil)
	require.NoError(t, err)
	require.NoError(t, v.Client.Mkdir("/persisted"))
	image := v.Snapshot()

	v2, err := Attach(image, nil)
	require.NoError(t, err)

	fd, err := v2.Client.Open("/persisted")
	require.NoError(t, err)
	require.NoError(t, v2.Client.Close(fd))
}
