package util

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSortedKeys(t *testing.T) {
	m := map[int][]string{2: {"D"}, 1: {"C", "E"}, 10: nil}
	assert.Equal(t, []int{1, 2, 10}, GetSortedKeys(m))

	keys := GetKeys(m)
	sort.Ints(keys)
	assert.Equal(t, []int{1, 2, 10}, keys)
}

func TestSumAndMin(t *testing.T) {
	assert.Equal(t, uint64(6), Sum([]int{3, 0, 3}))
	assert.Equal(t, uint64(0), Sum([]int(nil)))
	assert.Equal(t, 20, Min(20, 35))
	assert.Equal(t, 3, Min(20, 3))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	assert.Error(t, EnsureDir(filepath.Join(blocker, "sub")))
}
