package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// HostedMediaClient uploads to an unsigned-preset media host:
// POST <BaseURL>/v1_1/<CloudName>/upload with form fields file, upload_preset, cloud_name.
type HostedMediaClient struct {
	Client       *http.Client
	BaseURL      string
	CloudName    string
	UploadPreset string
}

func NewHostedMediaClient(baseURL, cloudName, preset string, timeout time.Duration) *HostedMediaClient {
	return &HostedMediaClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		CloudName:    cloudName,
		UploadPreset: preset,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

var _ Host = (*HostedMediaClient)(nil)

type uploadResponse struct {
	SecureURL    string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *HostedMediaClient) Upload(ctx context.Context, f File) (string, error) {
	body, contentType, err := c.form(f)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/v1_1/%s/upload", c.BaseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("media host returned %d: %s", resp.StatusCode, msg)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("media host returned no url")
	}
	return out.SecureURL, nil
}

// form 构造 multipart 请求体；单文件不超过 10 MiB，直接放内存
func (c *HostedMediaClient) form(f File) (io.Reader, string, error) {
	src, err := f.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Name)))
	h.Set("Content-Type", f.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("upload_preset", c.UploadPreset); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("cloud_name", c.CloudName); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
