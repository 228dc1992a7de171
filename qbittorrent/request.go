package qbittorrent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

const apiBase = "api/v2"

// do performs one HTTP exchange against the Web API without touching
// session state. sid may be empty for unauthenticated endpoints. The
// response body is fully read; non-2xx statuses become an *APIError
// carrying the body text.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType, sid string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := joinURL(c.baseURL, apiBase, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.basicUser != "" {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sid})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}

// doRequest is the authenticated request path: it establishes or refreshes
// the session first and aborts without sending anything when that fails.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, query, body, contentType, c.sid())
}

// getJSON issues an authenticated GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// getText issues an authenticated GET and returns the trimmed body text.
// Several scalar endpoints answer with bare strings rather than JSON.
func (c *Client) getText(ctx context.Context, path string, query url.Values) (string, error) {
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// postForm issues an authenticated form-encoded POST.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	_, err := c.doRequest(ctx, http.MethodPost, path, nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	return err
}

// postFormJSON issues an authenticated form-encoded POST and decodes the
// JSON response into out.
func (c *Client) postFormJSON(ctx context.Context, path string, form url.Values, out any) error {
	data, err := c.doRequest(ctx, http.MethodPost, path, nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// postMultipart issues an authenticated multipart POST carrying form fields
// and optional file payloads.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files []UploadFile) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("encoding field %q: %w", key, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile("torrents", f.Name)
		if err != nil {
			return fmt.Errorf("encoding file %q: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("encoding file %q: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	_, err := c.doRequest(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType())
	return err
}
