package work

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type reserveResponse struct {
	Data *struct {
		DocumentNumber interface{} `json:"document_number"`
	} `json:"data"`
}

// ReserveDocumentNumber allocates the next document number in database.
// Every call reserves a new number on the server; it is not idempotent.
func (c *Client) ReserveDocumentNumber(ctx context.Context, token, database string) (string, error) {
	path := fmt.Sprintf("/api/v1/documents/%s/reserve", url.PathEscape(database))

	var resp reserveResponse
	err := c.do(ctx, request{
		op:     "reserve",
		method: http.MethodGet,
		path:   path,
		token:  token,
		retry:  true,
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Data == nil {
		return "", &ResponseShapeError{Op: "reserve", Field: "data"}
	}

	switch v := resp.Data.DocumentNumber.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case json.Number:
		return v.String(), nil
	case nil:
	default:
		return "", &ResponseShapeError{
			Op:    "reserve",
			Field: "data.document_number",
			Err:   fmt.Errorf("expected string or number, got %T", v),
		}
	}
	return "", &ResponseShapeError{Op: "reserve", Field: "data.document_number"}
}
