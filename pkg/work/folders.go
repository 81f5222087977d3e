package work

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DefaultSecurityInherit makes a new folder inherit its parent's security.
const DefaultSecurityInherit = "inherit"

// DatabaseFromContainer returns the database (library) part of a container
// id, which is everything before the first "!". An id without "!" is
// returned unchanged.
func DatabaseFromContainer(containerID string) string {
	database, _, _ := strings.Cut(containerID, "!")
	return database
}

// CreateFolderRequest is the body of the create-subfolder call.
type CreateFolderRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Database        string `json:"database"`
	DefaultSecurity string `json:"default_security"`
}

// Folder is a folder record returned by the server.
type Folder struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Database string `mapstructure:"database"`

	// Raw is the record exactly as the server returned it.
	Raw json.RawMessage `mapstructure:"-"`
}

type createFolderResponse struct {
	Data json.RawMessage `json:"data"`
}

// CreateSubfolder creates one folder under containerID. The database is
// derived from the container id; DefaultSecurity defaults to "inherit".
func (c *Client) CreateSubfolder(ctx context.Context, token, containerID string, req CreateFolderRequest) (*Folder, error) {
	database := DatabaseFromContainer(containerID)
	if req.Database == "" {
		req.Database = database
	}
	if req.DefaultSecurity == "" {
		req.DefaultSecurity = DefaultSecurityInherit
	}

	path := fmt.Sprintf("/api/v2/customers/%s/libraries/%s/folders/%s/subfolders",
		url.PathEscape(c.config.CustomerID),
		url.PathEscape(database),
		url.PathEscape(containerID))

	var resp createFolderResponse
	err := c.do(ctx, request{
		op:     "create-folder",
		method: http.MethodPost,
		path:   path,
		token:  token,
		body:   req,
		retry:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(resp.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &ResponseShapeError{Op: "create-folder", Field: "data"}
	}

	var record map[string]interface{}
	if err := decodeJSON(raw, &record); err != nil {
		return nil, &ResponseShapeError{Op: "create-folder", Field: "data", Err: err}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, &ResponseShapeError{Op: "create-folder", Field: "data", Err: err}
	}

	folder := &Folder{Raw: json.RawMessage(compact.Bytes())}
	if err := mapstructure.WeakDecode(record, folder); err != nil {
		return nil, &ResponseShapeError{Op: "create-folder", Field: "data", Err: err}
	}

	return folder, nil
}
