package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Reserver allocates document numbers. *work.Client implements it.
type Reserver interface {
	ReserveDocumentNumber(ctx context.Context, token, database string) (string, error)
}

// ReserveOptions configures ReserveNumbers.
type ReserveOptions struct {
	Token    string
	Database string
	Count    int
	Logger   hclog.Logger
}

// ReserveSummary describes a completed reservation loop.
type ReserveSummary struct {
	Count   int
	Elapsed time.Duration
}

// String is the summary line printed after the loop.
func (s ReserveSummary) String() string {
	return fmt.Sprintf("Reserved %d document numbers in %.3f seconds", s.Count, s.Elapsed.Seconds())
}

// ReserveNumbers calls r exactly opts.Count times, one call after another,
// writing each reserved number on its own line to out, then the summary
// line. The first failure stops the loop with an *IterationError and no
// summary is written.
func ReserveNumbers(ctx context.Context, r Reserver, opts ReserveOptions, out io.Writer) (*ReserveSummary, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got: %d", opts.Count)
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("reserve")

	start := time.Now()
	for i := 0; i < opts.Count; i++ {
		number, err := r.ReserveDocumentNumber(ctx, opts.Token, opts.Database)
		if err != nil {
			logger.Error("reservation failed", "iteration", i, "completed", i, "error", err)
			return nil, &IterationError{Op: "reserve-docnums", Index: i, Completed: i, Err: err}
		}
		logger.Trace("reserved document number", "iteration", i, "number", number)

		if _, err := fmt.Fprintln(out, number); err != nil {
			return nil, fmt.Errorf("error writing document number: %w", err)
		}
	}

	summary := &ReserveSummary{Count: opts.Count, Elapsed: time.Since(start)}
	logger.Info("reservation loop finished", "count", summary.Count, "elapsed", summary.Elapsed)

	if _, err := fmt.Fprintln(out, summary.String()); err != nil {
		return nil, fmt.Errorf("error writing summary: %w", err)
	}
	return summary, nil
}
