package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEverySubmittedJob(t *testing.T) {
	p := NewPool(3)

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		})
	}
	wg.Wait()
	p.Stop()

	assert.EqualValues(t, 50, ran.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	p := NewPool(0)
	p.Stop()
	p.Stop()
}
