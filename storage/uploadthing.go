package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the UploadThing REST API. Only file deletion is needed
// server side; uploads go from the browser straight to the file host.
type Client struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type deleteFilesRequest struct {
	FileKeys []string `json:"fileKeys"`
}

type deleteFilesResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

// DeleteFiles removes the given file keys. Empty keys are skipped; an empty
// list makes no request.
func (c *Client) DeleteFiles(ctx context.Context, keys []string) error {
	fileKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			fileKeys = append(fileKeys, k)
		}
	}
	if len(fileKeys) == 0 {
		return nil
	}

	body, err := json.Marshal(deleteFilesRequest{FileKeys: fileKeys})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v6/deleteFiles", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Uploadthing-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("file api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result deleteFilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode delete response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("file api reported failure deleting %d files", len(fileKeys))
	}
	return nil
}

// FileKey extracts the storage key from a file URL, either the app-scoped
// form (/a/{appID}/{key}) or the plain form (/f/{key}). Unknown URLs yield "".
func FileKey(fileURL, appID string) string {
	if appID != "" {
		if _, key, ok := strings.Cut(fileURL, "/a/"+appID+"/"); ok {
			return key
		}
	}
	if _, key, ok := strings.Cut(fileURL, "/f/"); ok {
		return key
	}
	return ""
}

// AppURL rewrites the first /f/ segment of an upload URL to the app-scoped /a/{appID}/ form.
func AppURL(fileURL, appID string) string {
	return strings.Replace(fileURL, "/f/", "/a/"+appID+"/", 1)
}
