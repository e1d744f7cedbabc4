package mapper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBijection(t *testing.T) {
	b := NewBuilder(4)
	globals := []int64{100, 55, 200, 3}
	for _, g := range globals {
		require.NoError(t, b.Add(g))
	}
	m := b.Build()
	require.Equal(t, 4, m.N())

	for local, g := range globals {
		gotGlobal, err := m.ToGlobal(local)
		require.NoError(t, err)
		require.Equal(t, g, gotGlobal)

		gotLocal, err := m.ToLocal(g)
		require.NoError(t, err)
		require.Equal(t, local, gotLocal)
	}
}

func TestDuplicateGlobalFails(t *testing.T) {
	b := NewBuilder(4)
	require.NoError(t, b.Add(1))
	require.Error(t, b.Add(1))
}

func TestPartitions(t *testing.T) {
	b := NewBuilder(3)
	for i := int64(0); i < 10; i++ {
		require.NoError(t, b.Add(i))
	}
	m := b.Build()
	require.Equal(t, 4, m.PartitionCount()) // ceil(10/3)
	require.Equal(t, 0, m.PartitionOf(2))
	require.Equal(t, 1, m.PartitionOf(3))
	start, end := m.LocalRange(3)
	require.Equal(t, 9, start)
	require.Equal(t, 10, end)
}

func TestUnknownIndicesFail(t *testing.T) {
	b := NewBuilder(2)
	require.NoError(t, b.Add(5))
	m := b.Build()
	_, err := m.ToGlobal(5)
	require.Error(t, err)
	_, err = m.ToLocal(999)
	require.Error(t, err)
}
