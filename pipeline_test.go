package prism

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		size    int
	}{
		{"empty", 4, 0},
		{"single worker", 1, 10},
		{"more workers than items", 16, 5},
		{"uneven chunks", 4, 10},
		{"no worker asked", 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]int, tt.size)
			for i := range data {
				data[i] = i * 10
			}

			visits := make([]int32, tt.size)
			task(tt.workers, data, func(index int, value int) {
				assert.Equal(t, index*10, value)
				atomic.AddInt32(&visits[index], 1)
			})

			for i, v := range visits {
				assert.Equal(t, int32(1), v, "index %d", i)
			}
		})
	}
}
