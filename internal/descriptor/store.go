// Package descriptor is the adapter for the remote content-addressed blob
// API used as the deployment audit trail. The remote store has no locking
// primitive; writes to an existing path must present the blob's current
// fingerprint, which doubles as the store's conflict detection.
package descriptor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotFound is returned when a path has no blob.
var ErrNotFound = errors.New("descriptor not found")

// ErrConcurrentModification is returned when a write presented a stale
// fingerprint: another writer updated the path between read and write. The
// adapter never retries; the concurrent writer's content is left intact.
var ErrConcurrentModification = errors.New("descriptor modified concurrently")

// Blob is the content and fingerprint of a stored descriptor.
type Blob struct {
	Content     []byte
	Fingerprint string
}

// Store reads and writes versioned descriptors.
type Store interface {
	// GetBlob fetches the blob at path in the given repository.
	GetBlob(ctx context.Context, repoURL, path, token string) (*Blob, error)
	// PutBlob writes content to path using the compare-and-swap protocol:
	// read the current fingerprint (absence is fine), then write presenting
	// it iff one was found.
	PutBlob(ctx context.Context, repoURL, path string, content []byte, message, token string) error
	// GetBranchHead returns the head commit fingerprint of a branch.
	GetBranchHead(ctx context.Context, repoURL, branch, token string) (string, error)
}

// HTTPStore is a Store backed by a GitHub-style contents API.
type HTTPStore struct {
	apiBase string
	base    *http.Client
}

// NewHTTPStore creates a new HTTPStore rooted at the given API base URL.
func NewHTTPStore(apiBase string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		apiBase: strings.TrimRight(apiBase, "/"),
		base:    &http.Client{Timeout: timeout},
	}
}

// GetBlob fetches the blob at path, decoding the store's base64 content
// envelope.
func (s *HTTPStore) GetBlob(ctx context.Context, repoURL, path, token string) (*Blob, error) {
	body, status, err := s.do(ctx, token, http.MethodGet, s.contentsURL(repoURL, path), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("descriptor store error (status %d): %s", status, string(body))
	}

	var file struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("failed to decode store response: %w", err)
	}

	// The store wraps base64 content across lines.
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(file.Content), ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob content: %w", err)
	}
	return &Blob{Content: raw, Fingerprint: file.SHA}, nil
}

// PutBlob writes content to path with the compare-and-swap discipline.
func (s *HTTPStore) PutBlob(ctx context.Context, repoURL, path string, content []byte, message, token string) error {
	var fingerprint string
	existing, err := s.GetBlob(ctx, repoURL, path, token)
	switch {
	case err == nil:
		fingerprint = existing.Fingerprint
	case errors.Is(err, ErrNotFound):
		// First write to this path; no fingerprint to present.
	default:
		return err
	}

	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if fingerprint != "" {
		payload["sha"] = fingerprint
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal write payload: %w", err)
	}

	body, status, err := s.do(ctx, token, http.MethodPut, s.contentsURL(repoURL, path), encoded)
	if err != nil {
		return err
	}
	if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: %s", ErrConcurrentModification, path)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("descriptor store error (status %d): %s", status, string(body))
	}
	return nil
}

// GetBranchHead returns the head commit fingerprint of a branch.
func (s *HTTPStore) GetBranchHead(ctx context.Context, repoURL, branch, token string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/branches/%s", s.apiBase, repoPath(repoURL), branch)
	body, status, err := s.do(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", ErrNotFound
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("descriptor store error (status %d): %s", status, string(body))
	}

	var ref struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	if err := json.Unmarshal(body, &ref); err != nil {
		return "", fmt.Errorf("failed to decode store response: %w", err)
	}
	return ref.Commit.SHA, nil
}

func (s *HTTPStore) do(ctx context.Context, token, method, url string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client(ctx, token).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach descriptor store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read store response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// client binds the caller-supplied bearer token to the timeout-bound base
// transport.
func (s *HTTPStore) client(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = s.base.Timeout
	return client
}

func (s *HTTPStore) contentsURL(repoURL, path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", s.apiBase, repoPath(repoURL), escapePath(path))
}

// repoPath reduces a repository URL to its owner/name form.
func repoPath(repoURL string) string {
	trimmed := strings.TrimPrefix(repoURL, "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	return strings.Trim(trimmed, "/")
}

func escapePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
