package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/workctl/pkg/work"
)

// fakeReserver returns sequential numbers and fails on failAt (1-based call).
type fakeReserver struct {
	calls  int
	failAt int
	err    error

	tokens    []string
	databases []string
}

func (f *fakeReserver) ReserveDocumentNumber(ctx context.Context, token, database string) (string, error) {
	f.calls++
	f.tokens = append(f.tokens, token)
	f.databases = append(f.databases, database)
	if f.failAt == f.calls {
		return "", f.err
	}
	return fmt.Sprintf("AB-%d", 99+f.calls), nil
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestReserveNumbers(t *testing.T) {
	for _, count := range []int{0, 1, 3, 25} {
		t.Run(fmt.Sprintf("count=%d", count), func(t *testing.T) {
			r := &fakeReserver{}
			var out bytes.Buffer

			summary, err := ReserveNumbers(context.Background(), r, ReserveOptions{
				Token:    "tok",
				Database: "ACTIVE",
				Count:    count,
			}, &out)
			require.NoError(t, err)

			assert.Equal(t, count, r.calls)
			assert.Equal(t, count, summary.Count)

			got := lines(out.String())
			require.Len(t, got, count+1)
			for i := 0; i < count; i++ {
				assert.Equal(t, fmt.Sprintf("AB-%d", 100+i), got[i])
				assert.Equal(t, "tok", r.tokens[i])
				assert.Equal(t, "ACTIVE", r.databases[i])
			}
			assert.True(t, strings.HasPrefix(got[count], fmt.Sprintf("Reserved %d document numbers in ", count)))
		})
	}
}

func TestReserveNumbers_ZeroCountPrintsOnlySummary(t *testing.T) {
	var out bytes.Buffer
	summary, err := ReserveNumbers(context.Background(), &fakeReserver{}, ReserveOptions{Count: 0}, &out)
	require.NoError(t, err)

	got := lines(out.String())
	require.Len(t, got, 1)
	assert.Equal(t, summary.String(), got[0])
	assert.Less(t, summary.Elapsed.Seconds(), 1.0)
}

func TestReserveNumbers_FailFast(t *testing.T) {
	cause := &work.ServerError{Op: "reserve", StatusCode: 500}

	t.Run("first iteration", func(t *testing.T) {
		r := &fakeReserver{failAt: 1, err: cause}
		var out bytes.Buffer

		summary, err := ReserveNumbers(context.Background(), r, ReserveOptions{Count: 5}, &out)
		require.Error(t, err)
		assert.Nil(t, summary)
		assert.Equal(t, 1, r.calls)
		assert.Empty(t, out.String())

		var iterErr *IterationError
		require.ErrorAs(t, err, &iterErr)
		assert.True(t, iterErr.BeforeProgress())
		assert.Equal(t, 0, iterErr.Index)

		var serverErr *work.ServerError
		assert.ErrorAs(t, err, &serverErr)
	})

	t.Run("mid loop", func(t *testing.T) {
		r := &fakeReserver{failAt: 3, err: cause}
		var out bytes.Buffer

		_, err := ReserveNumbers(context.Background(), r, ReserveOptions{Count: 5}, &out)
		require.Error(t, err)
		assert.Equal(t, 3, r.calls, "no calls after the failing one")

		var iterErr *IterationError
		require.ErrorAs(t, err, &iterErr)
		assert.False(t, iterErr.BeforeProgress())
		assert.Equal(t, 2, iterErr.Completed)
		assert.Equal(t, 2, iterErr.Index)

		assert.Equal(t, []string{"AB-100", "AB-101"}, lines(out.String()), "no summary on failure")
	})
}

func TestReserveNumbers_NegativeCount(t *testing.T) {
	r := &fakeReserver{}
	_, err := ReserveNumbers(context.Background(), r, ReserveOptions{Count: -1}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 0, r.calls)
}

func TestReserveSummary_String(t *testing.T) {
	s := ReserveSummary{Count: 3, Elapsed: 1500 * time.Millisecond}
	assert.Equal(t, "Reserved 3 document numbers in 1.500 seconds", s.String())
}

func TestIterationError(t *testing.T) {
	cause := errors.New("boom")
	err := &IterationError{Op: "create-folders", Index: 7, Completed: 2, Err: cause}

	assert.Equal(t, "create-folders: iteration 7 failed after 2 completed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.BeforeProgress())
}
