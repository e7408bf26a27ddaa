// ABOUTME: Multipart upload calls through the same pipeline
// ABOUTME: Overrides the JSON content type with multipart/form-data for file payloads

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
)

// File is one file part of a multipart upload.
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

// Upload POSTs fields and files as multipart/form-data and decodes the JSON
// response into out. Failure handling is identical to Do.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files []File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return &RequestError{Kind: OtherFailure, Method: http.MethodPost, Path: path, Message: "failed to encode form", Err: err}
		}
	}

	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return &RequestError{Kind: OtherFailure, Method: http.MethodPost, Path: path, Message: "failed to encode form", Err: err}
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return &RequestError{Kind: OtherFailure, Method: http.MethodPost, Path: path, Message: fmt.Sprintf("failed to read %s", f.Name), Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return &RequestError{Kind: OtherFailure, Method: http.MethodPost, Path: path, Message: "failed to encode form", Err: err}
	}

	return c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}
