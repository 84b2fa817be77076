package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, time.May, 19, 15, 4, 0, 0, time.Local)
	tests := []struct {
		in   string
		want string
	}{
		{"2024-05-19", "2024-05-19"},
		{"2024-5-9", "2024-05-09"},
		{"2024/05/09", "2024-05-09"},
		{"20240509", "2024-05-09"},
		{" today ", "2024-05-19"},
		{"yesterday", "2024-05-18"},
		{"明天", "2024-05-20"},
		{"-2d", "2024-05-17"},
		{"+1w", "2024-05-26"},
		{"-1m", "2024-04-19"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, now)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDateInvalid(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "   ", "someday", "2024-13-01", "-xd", "-12h"} {
		_, err := ParseDate(in, now)
		assert.Error(t, err, in)
	}
}

func TestInWindow(t *testing.T) {
	until := time.Date(2024, time.May, 19, 8, 0, 0, 0, time.Local)
	since := until.AddDate(0, 0, -7)
	assert.True(t, InWindow("2024-05-19", since, until))
	assert.True(t, InWindow("2024-05-12", since, until))
	assert.False(t, InWindow("2024-05-11", since, until))
	assert.False(t, InWindow("2024-05-20", since, until))
	assert.False(t, InWindow("garbage", since, until))
}
