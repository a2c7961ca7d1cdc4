package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_RunsInDueOrder(t *testing.T) {
	f := NewFake()
	var got []string
	f.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	f.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	f.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })

	f.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, f.Pending())

	f.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, f.Pending())
}

func TestFake_TiesKeepSchedulingOrder(t *testing.T) {
	f := NewFake()
	var got []int
	for i := range 5 {
		f.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	f.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestFake_StopPreventsCallback(t *testing.T) {
	f := NewFake()
	fired := false
	tm := f.AfterFunc(time.Second, func() { fired = true })

	require.True(t, tm.Stop())
	require.False(t, tm.Stop(), "second stop reports false")

	f.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFake_StopAfterFireReportsFalse(t *testing.T) {
	f := NewFake()
	tm := f.AfterFunc(time.Millisecond, func() {})
	f.Advance(time.Millisecond)
	assert.False(t, tm.Stop())
}

func TestFake_NestedSchedulingWithinWindow(t *testing.T) {
	f := NewFake()
	var at []time.Duration
	start := f.Now()
	f.AfterFunc(100*time.Millisecond, func() {
		at = append(at, f.Now().Sub(start))
		f.AfterFunc(100*time.Millisecond, func() {
			at = append(at, f.Now().Sub(start))
		})
	})

	f.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, at)
	assert.Equal(t, time.Second, f.Now().Sub(start))
}

func TestQueue_DrainAndFire(t *testing.T) {
	q := NewQueue()
	ran := 0
	a := q.AfterFunc(10*time.Millisecond, func() { ran++ })
	q.AfterFunc(20*time.Millisecond, func() { ran++ })

	pending := q.Drain()
	require.Len(t, pending, 2)
	assert.Equal(t, 10*time.Millisecond, pending[0].Delay)
	assert.Nil(t, q.Drain(), "drain is consumed")

	a.Stop()
	assert.False(t, q.Fire(pending[0].ID), "stopped timer must not fire")
	assert.True(t, q.Fire(pending[1].ID))
	assert.False(t, q.Fire(pending[1].ID), "timer fires once")
	assert.Equal(t, 1, ran)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DrainSkipsStopped(t *testing.T) {
	q := NewQueue()
	tm := q.AfterFunc(time.Second, func() {})
	tm.Stop()
	assert.Empty(t, q.Drain())
}
