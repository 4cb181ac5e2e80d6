package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func rawValue(t *testing.T, v interface{}) bson.RawValue {
	t.Helper()
	if v == nil {
		return bson.RawValue{Type: bson.TypeNull}
	}
	typ, data, err := bson.MarshalValue(v)
	require.NoError(t, err)
	return bson.RawValue{Type: typ, Value: data}
}

func TestNormalizeWatermark_Missing(t *testing.T) {
	watermark, ok := normalizeWatermark(bson.RawValue{})
	assert.True(t, ok)
	assert.Nil(t, watermark)
}

func TestNormalizeWatermark_Null(t *testing.T) {
	watermark, ok := normalizeWatermark(rawValue(t, nil))
	assert.True(t, ok)
	assert.Nil(t, watermark)
}

func TestNormalizeWatermark_AwareString(t *testing.T) {
	watermark, ok := normalizeWatermark(rawValue(t, "2024-03-01T10:00:00+09:00"))
	require.True(t, ok)
	require.NotNil(t, watermark)
	assert.True(t, watermark.HasOffset)
}

func TestNormalizeWatermark_NaiveString(t *testing.T) {
	watermark, ok := normalizeWatermark(rawValue(t, "2024-03-01T10:00:00"))
	require.True(t, ok)
	require.NotNil(t, watermark)
	assert.False(t, watermark.HasOffset)
}

func TestNormalizeWatermark_UnparseableString(t *testing.T) {
	watermark, ok := normalizeWatermark(rawValue(t, "yesterday"))
	assert.False(t, ok)
	assert.Nil(t, watermark)
}

func TestNormalizeWatermark_LegacyDateTime(t *testing.T) {
	stored := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	watermark, ok := normalizeWatermark(rawValue(t, stored))
	require.True(t, ok)
	require.NotNil(t, watermark)
	// BSON datetime — это всегда UTC-момент, считаем его offset-aware.
	assert.True(t, watermark.HasOffset)
	assert.True(t, watermark.Time.Equal(stored))
}

func TestNormalizeWatermark_UnsupportedType(t *testing.T) {
	watermark, ok := normalizeWatermark(rawValue(t, int64(1709253600)))
	assert.False(t, ok)
	assert.Nil(t, watermark)
}
