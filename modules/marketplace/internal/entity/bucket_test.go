package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketWindowFloor(t *testing.T) {
	testcases := []struct {
		window   BucketWindow
		unixTime int64
		expected int64
	}{
		{BucketWindowHour, 0, 0},
		{BucketWindowHour, 3599, 0},
		{BucketWindowHour, 3600, 3600},
		{BucketWindowHour, 7200, 7200},
		{BucketWindowDay, 86399, 0},
		{BucketWindowDay, 86400, 86400},
		{BucketWindowMonth, 2591999, 0},
		{BucketWindowMonth, 2592000, 2592000},
	}
	for _, tc := range testcases {
		assert.Equal(t, tc.expected, tc.window.Floor(tc.unixTime), "window %s, time %d", tc.window, tc.unixTime)
	}
}

func TestBucketWindowWidth(t *testing.T) {
	assert.Equal(t, int64(3600), BucketWindowHour.WidthSeconds())
	assert.Equal(t, int64(86400), BucketWindowDay.WidthSeconds())
	assert.Equal(t, int64(2592000), BucketWindowMonth.WidthSeconds())
	assert.Equal(t, int64(0), BucketWindow("week").WidthSeconds())
	assert.False(t, BucketWindow("week").IsSupported())
}

func TestBucketId(t *testing.T) {
	bucket := NewTransactionBucket(BucketWindowHour.Floor(7201))
	assert.Equal(t, "7200", bucket.Id())
	assert.Equal(t, int64(0), bucket.TotalTransaction)
	assert.Equal(t, "0", bucket.TotalAmount.String())
}
