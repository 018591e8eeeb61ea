package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{name: "even split", total: 100, n: 2, want: []int64{50, 50}},
		{name: "remainder goes to first parts", total: 101, n: 3, want: []int64{34, 34, 33}},
		{name: "smaller than parts", total: 1, n: 3, want: []int64{1, 0, 0}},
		{name: "zero", total: 0, n: 2, want: []int64{0, 0}},
		{name: "no parts", total: 10, n: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEvenly(tt.total, tt.n)
			assert.Equal(t, tt.want, got)

			var sum int64
			for _, part := range got {
				sum += part
			}
			if tt.n > 0 {
				assert.Equal(t, tt.total, sum)
			}
		})
	}
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 2.67, RoundWithTwoDecimalPlace(1200.0/45000.0*100))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-01-20T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC), ts)

	day, err := ParseTimestamp("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseTimestamp("15/01/2024")
	assert.Error(t, err)
}

func TestGenerateID(t *testing.T) {
	first, err := GenerateID()
	require.NoError(t, err)
	second, err := GenerateID()
	require.NoError(t, err)

	assert.Len(t, first, idLength)
	assert.NotEqual(t, first, second)
}

func TestNewSortableID(t *testing.T) {
	first := NewSortableID()
	time.Sleep(2 * time.Millisecond)
	second := NewSortableID()

	assert.Less(t, first, second)
}
