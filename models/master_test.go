package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMasterTime(t *testing.T) {
	t.Run("offset aware", func(t *testing.T) {
		mt, err := ParseMasterTime("2024-03-01T10:00:00+09:00")
		require.NoError(t, err)
		assert.True(t, mt.HasOffset)
		assert.Equal(t, 2024, mt.Time.Year())
		_, offset := mt.Time.Zone()
		assert.Equal(t, 9*3600, offset)
	})

	t.Run("zulu counts as offset aware", func(t *testing.T) {
		mt, err := ParseMasterTime("2024-03-01T10:00:00Z")
		require.NoError(t, err)
		assert.True(t, mt.HasOffset)
	})

	t.Run("naive", func(t *testing.T) {
		mt, err := ParseMasterTime("2024-03-01T10:00:00")
		require.NoError(t, err)
		assert.False(t, mt.HasOffset)
	})

	t.Run("naive with space separator", func(t *testing.T) {
		mt, err := ParseMasterTime("2024-03-01 10:00:00")
		require.NoError(t, err)
		assert.False(t, mt.HasOffset)
	})

	t.Run("naive with fraction", func(t *testing.T) {
		mt, err := ParseMasterTime("2024-03-01T10:00:00.123456")
		require.NoError(t, err)
		assert.False(t, mt.HasOffset)
		assert.Equal(t, 123456000, mt.Time.Nanosecond())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseMasterTime("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseMasterTime("not-a-date")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ISO 8601")
	})

	t.Run("date only is rejected", func(t *testing.T) {
		_, err := ParseMasterTime("2024-03-01")
		require.Error(t, err)
	})
}

func TestMasterTimeString_RoundTrips(t *testing.T) {
	for _, value := range []string{
		"2024-03-01T10:00:00+09:00",
		"2024-03-01T10:00:00Z",
		"2024-03-01T10:00:00",
	} {
		mt, err := ParseMasterTime(value)
		require.NoError(t, err)

		again, err := ParseMasterTime(mt.String())
		require.NoError(t, err, "rendered form %q must parse back", mt.String())
		assert.Equal(t, mt.HasOffset, again.HasOffset)
		assert.True(t, mt.Time.Equal(again.Time))
	}
}

func TestMasterTimeAfter(t *testing.T) {
	older := MasterTime{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), HasOffset: true}
	newer := MasterTime{Time: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), HasOffset: true}

	assert.True(t, newer.After(older))
	assert.False(t, older.After(newer))
	assert.False(t, older.After(older), "equal instants are not strictly after")
}

func TestMasterTimeAfter_EqualInstantDifferentOffset(t *testing.T) {
	// 10:00+09:00 и 01:00Z — один и тот же момент времени.
	a, err := ParseMasterTime("2024-03-01T10:00:00+09:00")
	require.NoError(t, err)
	b, err := ParseMasterTime("2024-03-01T01:00:00Z")
	require.NoError(t, err)

	assert.False(t, a.After(b))
	assert.False(t, b.After(a))
}

func TestIsValidClass(t *testing.T) {
	for _, c := range []string{"A", "B", "C", "D", "E"} {
		assert.True(t, IsValidClass(c))
	}
	for _, c := range []string{"", "F", "a", "AA"} {
		assert.False(t, IsValidClass(c))
	}
}
