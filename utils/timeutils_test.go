package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIso8601FromUnixSeconds(t *testing.T) {
	assert.Equal(t, "2023-11-14T22:13:20Z", Iso8601FromUnixSeconds(1700000000))
	assert.Equal(t, "", Iso8601FromUnixSeconds(0))
}

func TestValidUntilFrom(t *testing.T) {
	base := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05T08:00:10Z", ValidUntilFrom(base, 10*time.Second))
	assert.Equal(t, "", ValidUntilFrom(base, 0))
	assert.Equal(t, "", ValidUntilFrom(time.Time{}, time.Second))
}

func TestServiceDayTime(t *testing.T) {
	day := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 15, 0, 0, time.UTC), ServiceDayTime(day, 29700))
	assert.Equal(t, time.Date(2024, 3, 6, 1, 5, 0, 0, time.UTC), ServiceDayTime(day, 90300))
}
