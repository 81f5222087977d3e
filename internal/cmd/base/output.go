package base

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/workctl/pkg/batch"
	"github.com/hashicorp-forge/workctl/pkg/work"
)

type uiWriter struct {
	ui cli.Ui
}

// UIWriter returns a writer that sends each written line to ui.Output.
func UIWriter(ui cli.Ui) io.Writer {
	return &uiWriter{ui: ui}
}

func (w *uiWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		w.ui.Output(line)
	}
	return len(p), nil
}

// IntArg is a positional argument that must be an integer.
type IntArg struct {
	Name        string
	Value       string
	Target      *int
	NonNegative bool
}

// ParseIntArgs parses every argument into its target and reports all bad
// values together.
func ParseIntArgs(args ...IntArg) error {
	var result *multierror.Error
	for _, a := range args {
		n, err := strconv.Atoi(a.Value)
		if err != nil {
			result = multierror.Append(result,
				fmt.Errorf("%s must be an integer, got: %q", a.Name, a.Value))
			continue
		}
		if a.NonNegative && n < 0 {
			result = multierror.Append(result,
				fmt.Errorf("%s must be non-negative, got: %d", a.Name, n))
			continue
		}
		*a.Target = n
	}
	return result.ErrorOrNil()
}

// ReportError prints err to the UI, naming the phase that failed, and
// returns the exit code.
func (c *Command) ReportError(err error) int {
	var iterErr *batch.IterationError
	switch {
	case errors.As(err, &iterErr) && iterErr.BeforeProgress():
		c.UI.Error(fmt.Sprintf("error during %s: first request failed (%s phase), nothing was done: %v",
			iterErr.Op, work.Phase(iterErr.Err), iterErr.Err))
	case errors.As(err, &iterErr):
		c.UI.Error(fmt.Sprintf("error during %s: aborted after %d completed (%s phase): %v",
			iterErr.Op, iterErr.Completed, work.Phase(iterErr.Err), iterErr.Err))
	default:
		c.UI.Error(fmt.Sprintf("error (%s phase): %v", work.Phase(err), err))
	}
	return 1
}
