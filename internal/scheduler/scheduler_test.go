package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, time.April, 1, 6, 0, 0, 0, time.UTC), "03/2025"},
		{time.Date(2025, time.January, 1, 6, 0, 0, 0, time.UTC), "12/2024"},
		{time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC), "02/2025"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, previousPeriod(tt.now))
	}
}
