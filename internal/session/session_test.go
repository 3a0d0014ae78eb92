package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWasPreviouslyVisitedWithoutSnapshot(t *testing.T) {
	s := New("sid")
	s.Bookmark("R1", "r1")

	assert.Nil(t, s.PreviousRooms)
	assert.False(t, s.WasPreviouslyVisited("R1"))
}

func TestSnapshotPreviousBeforeBookmark(t *testing.T) {
	s := New("sid")

	// first navigation to R1
	s.SnapshotPrevious()
	s.Bookmark("R1", "r1")
	require.NotNil(t, s.PreviousRooms)
	assert.Empty(t, s.PreviousRooms)
	assert.False(t, s.WasPreviouslyVisited("R1"))

	// revisit R1, then navigate to R2
	s.SnapshotPrevious()
	s.Bookmark("R1", "r1")
	assert.True(t, s.WasPreviouslyVisited("R1"))

	s.SnapshotPrevious()
	s.Bookmark("R2", "r2")
	assert.Equal(t, []string{"R1"}, s.PreviousRooms)
	assert.False(t, s.WasPreviouslyVisited("R2"))
}

func TestUnbookmark(t *testing.T) {
	s := New("sid")
	s.Bookmark("R1", "r1")
	s.Bookmark("R2", "r2")
	s.SnapshotPrevious()

	id, ok := s.Unbookmark("R2")
	require.True(t, ok)
	assert.Equal(t, "r2", id)
	assert.Equal(t, map[string]string{"R1": "r1"}, s.UserRooms)
	assert.Equal(t, []string{"R1"}, s.PreviousRooms)

	_, ok = s.Unbookmark("R2")
	assert.False(t, ok)
}

func TestUnbookmarkKeepsUnsetSnapshotUnset(t *testing.T) {
	s := New("sid")
	s.Bookmark("R1", "r1")

	s.Unbookmark("R1")
	assert.Nil(t, s.PreviousRooms)
}

func TestCloneIsDeep(t *testing.T) {
	s := New("sid")
	s.Bookmark("R1", "r1")
	s.SnapshotPrevious()

	c := s.Clone()
	c.Bookmark("R2", "r2")
	c.PreviousRooms[0] = "changed"

	assert.Len(t, s.UserRooms, 1)
	assert.Equal(t, []string{"R1"}, s.PreviousRooms)
}
