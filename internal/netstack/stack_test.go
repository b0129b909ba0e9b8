package netstack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollRunsInPostOrder(t *testing.T) {
	s := New(8)
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		s.Post(func() { got = append(got, i) })
	}

	assert.Equal(t, 3, s.Pending())
	assert.Equal(t, 3, s.Poll())
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, uint64(3), s.Delivered())
}

func TestPollDoesNotBlockWhenEmpty(t *testing.T) {
	s := New(0)
	assert.Equal(t, 0, s.Poll())
}

func TestEventsPostedDuringPollWaitForNextPoll(t *testing.T) {
	s := New(8)
	ran := 0
	s.Post(func() {
		ran++
		s.Post(func() { ran++ })
	})

	assert.Equal(t, 1, s.Poll())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, s.Poll())
	assert.Equal(t, 2, ran)
}

func TestPostFromOtherGoroutines(t *testing.T) {
	s := New(32)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() {})
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, s.Poll())
}
