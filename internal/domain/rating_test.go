package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr error
	}{
		{`4`, 4, nil},
		{`1`, 1, nil},
		{`5`, 5, nil},
		{`4.0`, 4, nil},
		{`"3"`, 3, nil},
		{`" 2 "`, 2, nil},
		{`3.5`, 0, ErrInvalidRating},
		{`"3.5"`, 0, ErrInvalidRating},
		{`0`, 0, ErrInvalidRating},
		{`6`, 0, ErrInvalidRating},
		{`-1`, 0, ErrInvalidRating},
		{`"five"`, 0, ErrInvalidRating},
		{`true`, 0, ErrInvalidRating},
		{`[5]`, 0, ErrInvalidRating},
		{`1e0`, 1, nil},
		{`50e-1`, 5, nil},
		{`1e99999999`, 0, ErrInvalidRating},
		{`"0e-999999999"`, 0, ErrInvalidRating},
		{`-1e-99999999`, 0, ErrInvalidRating},
		{`4.000000000000000000000000000000000`, 0, ErrInvalidRating},
		{``, 0, ErrRatingRequired},
		{`null`, 0, ErrRatingRequired},
		{`""`, 0, ErrRatingRequired},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRating(json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeAverage(t *testing.T) {
	tests := []struct {
		name       string
		sum, count int64
		want       string
	}{
		{"no reviews", 0, 0, "0.00"},
		{"single four", 4, 1, "4.00"},
		{"four and five", 9, 2, "4.50"},
		{"five and one", 6, 2, "3.00"},
		{"one two two rounds up", 5, 3, "1.67"},
		{"two repeating", 7, 3, "2.33"},
		{"half at third place", 29, 8, "3.63"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAverage(tt.sum, tt.count).String())
		})
	}
}

func TestAverageRating_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]AverageRating{"average_rating": ComputeAverage(9, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"average_rating":4.50}`, string(b))
	assert.Contains(t, string(b), "4.50")

	var decoded struct {
		AverageRating AverageRating `json:"average_rating"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"average_rating":3.333}`), &decoded))
	assert.Equal(t, "3.33", decoded.AverageRating.String())
}

func TestAverageRating_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"numeric text", "4.67", "4.67"},
		{"numeric bytes", []byte("3.50"), "3.50"},
		{"zero", "0.00", "0.00"},
		{"integer", int64(5), "5.00"},
		{"extra places", "1.666", "1.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a AverageRating
			require.NoError(t, a.Scan(tt.value))
			assert.Equal(t, tt.want, a.String())
		})
	}

	var a AverageRating
	require.NoError(t, a.Scan("4.5"))
	assert.True(t, a.Equal(decimal.RequireFromString("4.5")))
	assert.Error(t, a.Scan("not a number"))
}
