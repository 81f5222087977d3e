package batch

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/workctl/pkg/work"
)

// descriptionLayout matches the timestamp format of the folder descriptions
// the server already holds.
const descriptionLayout = "2006-01-02 15:04:05.000000"

// FolderCreator creates subfolders. *work.Client implements it.
type FolderCreator interface {
	CreateSubfolder(ctx context.Context, token, containerID string, req work.CreateFolderRequest) (*work.Folder, error)
}

// FolderOptions configures CreateFolders.
type FolderOptions struct {
	Token       string
	ContainerID string
	Start       int
	Count       int
	Logger      hclog.Logger

	// Now stamps descriptions. Default: time.Now.
	Now func() time.Time
}

// FolderName is the name given to the folder created for offset.
func FolderName(offset int) string {
	return fmt.Sprintf("Folder #%d", offset)
}

// FolderDescription is the description given to a folder created at t.
func FolderDescription(t time.Time) string {
	return "Created by workctl on " + t.Format(descriptionLayout)
}

// CreateFolders creates one subfolder for each offset in
// [opts.Start, opts.Start+opts.Count), in ascending order, each request
// finishing before the next starts. Every returned record is written to out
// as one line of compact JSON. The first failure stops the loop with an
// *IterationError; folders created before it are left in place.
func CreateFolders(ctx context.Context, c FolderCreator, opts FolderOptions, out io.Writer) ([]*work.Folder, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got: %d", opts.Count)
	}
	if opts.Count > 0 && opts.Start > math.MaxInt-(opts.Count-1) {
		return nil, fmt.Errorf("start %d plus count %d overflows the folder number range",
			opts.Start, opts.Count)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("folders")

	database := work.DatabaseFromContainer(opts.ContainerID)
	var created []*work.Folder

	for i := 0; i < opts.Count; i++ {
		offset := opts.Start + i
		req := work.CreateFolderRequest{
			Name:            FolderName(offset),
			Description:     FolderDescription(now()),
			Database:        database,
			DefaultSecurity: work.DefaultSecurityInherit,
		}

		folder, err := c.CreateSubfolder(ctx, opts.Token, opts.ContainerID, req)
		if err != nil {
			logger.Error("folder creation failed",
				"name", req.Name,
				"completed", len(created),
				"error", err)
			return created, &IterationError{
				Op:        "create-folders",
				Index:     offset,
				Completed: len(created),
				Err:       err,
			}
		}
		created = append(created, folder)
		logger.Debug("created folder", "name", req.Name, "id", folder.ID)

		if _, err := fmt.Fprintln(out, string(folder.Raw)); err != nil {
			return created, fmt.Errorf("error writing folder record: %w", err)
		}
	}

	logger.Info("folder loop finished", "container", opts.ContainerID, "count", len(created))
	return created, nil
}
