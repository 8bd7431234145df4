package yearcache

import (
	"SchoolDesk/entity"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls atomic.Int32
	delay time.Duration
	err   error
	years []entity.SchoolYear
}

func (l *countingLoader) AllSchoolYears(_ context.Context) ([]entity.SchoolYear, error) {
	l.calls.Add(1)
	time.Sleep(l.delay)
	if l.err != nil {
		return nil, l.err
	}
	return l.years, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var years = []entity.SchoolYear{
	{ID: 1, YearStart: 2023, YearEnd: 2024},
	{ID: 2, YearStart: 2024, YearEnd: 2025, IsActive: true},
}

func TestYearsFetchedOnce(t *testing.T) {
	l := &countingLoader{years: years}
	c := New(l, testLogger())

	for i := 0; i < 3; i++ {
		got, err := c.Years(context.Background())
		require.NoError(t, err)
		assert.Equal(t, years, got)
	}
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestConcurrentCallersShareRequest(t *testing.T) {
	l := &countingLoader{years: years, delay: 50 * time.Millisecond}
	c := New(l, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Years(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), l.calls.Load())
}

func TestInvalidateRefetches(t *testing.T) {
	l := &countingLoader{years: years}
	c := New(l, testLogger())

	_, err := c.Years(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Years(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), l.calls.Load())
}

func TestErrorsAreNotCached(t *testing.T) {
	l := &countingLoader{err: errors.New("boom")}
	c := New(l, testLogger())

	_, err := c.Years(context.Background())
	require.Error(t, err)

	l.err = nil
	l.years = years
	got, err := c.Years(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestActive(t *testing.T) {
	c := New(&countingLoader{years: years}, testLogger())
	active, err := c.Active(context.Background())
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.ID)

	c = New(&countingLoader{years: years[:1]}, testLogger())
	active, err = c.Active(context.Background())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestReturnedSliceIsACopy(t *testing.T) {
	c := New(&countingLoader{years: years}, testLogger())
	got, _ := c.Years(context.Background())
	got[0].Label = "mutated"

	again, _ := c.Years(context.Background())
	assert.Empty(t, again[0].Label)
}
