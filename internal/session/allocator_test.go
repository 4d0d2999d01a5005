package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDAllocatorReturnsLowestFreeID(t *testing.T) {
	a := NewIDAllocator(4)

	id1, err := a.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint16(1), id1)

	id2, err := a.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint16(2), id2)

	require.NoError(t, a.Release(id1))

	id3, err := a.Allocate()
	require.NoError(t, err)
	require.Equal(t, uint16(1), id3)
}

func TestIDAllocatorNeverExceedsMaximum(t *testing.T) {
	a := NewIDAllocator(2)

	_, err := a.Allocate()
	require.NoError(t, err)
	_, err = a.Allocate()
	require.NoError(t, err)

	_, err = a.Allocate()
	require.ErrorIs(t, err, ErrPoolExhausted)
}

func TestIDAllocatorReleaseUnknownID(t *testing.T) {
	a := NewIDAllocator(4)
	err := a.Release(3)
	require.ErrorIs(t, err, ErrUnknownID)
}
