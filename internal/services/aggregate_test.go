package services_test

import (
	"testing"

	"storerating/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"no ratings", nil, 0},
		{"single", []int{5}, 5},
		{"whole mean", []int{3, 4, 5}, 4},
		{"rounds up", []int{1, 2, 2}, 1.67},
		{"rounds half away from zero", []int{1, 1, 1, 1, 1, 1, 1, 2}, 1.13},
		{"repeating", []int{4, 5, 5}, 4.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.AverageRating(ratingsOf(tt.values...)))
		})
	}
}
