// Package utils holds small client-side helpers.
package utils

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// UploadToPresignedURL PUTs data to a presigned object storage URL. Any 2xx
// response counts as success.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed: %s", resp.Status)
	}
	return nil
}
