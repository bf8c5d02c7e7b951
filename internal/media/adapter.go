// Package media validates local files and uploads them to the external media host.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

// MaxFileSize 单个文件上限 10 MiB
const MaxFileSize int64 = 10 * 1024 * 1024

var (
	ErrTooManyFiles = errors.New("too many media files")
	ErrUploadFailed = errors.New("media upload failed")
)

// Host uploads one file and returns its stable hosted URL.
type Host interface {
	Upload(ctx context.Context, f File) (string, error)
}

// Rejection describes a file filtered out before upload.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func (r Rejection) String() string { return r.Reason }

// Result 上传结果：成功的附件与被过滤的文件
type Result struct {
	Attachments []model.MediaAttachment `json:"attachments"`
	Rejections  []Rejection             `json:"rejections"`
}

type Adapter struct {
	host    Host
	maxSize int64
	limiter *rate.Limiter
	newID   func() string
}

type Option func(*Adapter)

func WithMaxFileSize(n int64) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxSize = n
		}
	}
}

// WithRateLimit paces upload starts; rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *Adapter) {
		if rps <= 0 {
			a.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithIDFunc(f func() string) Option { return func(a *Adapter) { a.newID = f } }

func NewAdapter(host Host, opts ...Option) *Adapter {
	a := &Adapter{host: host, maxSize: MaxFileSize, newID: func() string { return uuid.New().String() }}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Upload validates the batch and uploads the accepted files concurrently.
//
// The whole batch is refused with ErrTooManyFiles, before any upload, when
// len(files)+existing exceeds max. Files with a type other than image/* or video/*, or larger
// than the size limit, are dropped and reported in Rejections. A single failed upload fails the
// batch: no attachments are returned and the caller starts over.
func (a *Adapter) Upload(ctx context.Context, files []File, existing, max int) (*Result, error) {
	if len(files)+existing > max {
		return nil, fmt.Errorf("%w: maximum %d media files allowed", ErrTooManyFiles, max)
	}

	res := &Result{}
	valid := make([]File, 0, len(files))
	for _, f := range files {
		if reason := a.check(f); reason != "" {
			res.Rejections = append(res.Rejections, Rejection{Name: f.Name, Reason: reason})
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return res, nil
	}

	out := make([]model.MediaAttachment, len(valid))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range valid {
		i, f := i, f
		g.Go(func() error {
			if a.limiter != nil {
				if err := a.limiter.Wait(gctx); err != nil {
					return fmt.Errorf("%w: %s: %v", ErrUploadFailed, f.Name, err)
				}
			}
			url, err := a.host.Upload(gctx, f)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrUploadFailed, f.Name, err)
			}
			out[i] = model.MediaAttachment{ID: a.newID(), URL: url, Type: KindOf(f.ContentType)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("media batch failed", zap.Int("files", len(valid)), zap.Error(err))
		return res, err
	}
	res.Attachments = out
	return res, nil
}

func (a *Adapter) check(f File) string {
	var reasons []string
	if !Supported(f.ContentType) {
		reasons = append(reasons, fmt.Sprintf("Unsupported file type: %s", f.Name))
	}
	if f.Size > a.maxSize {
		reasons = append(reasons, fmt.Sprintf("File too large: %s. Max %s allowed.", f.Name, humanSize(a.maxSize)))
	}
	return strings.Join(reasons, " ")
}

func humanSize(n int64) string {
	const mib = 1024 * 1024
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}

func Supported(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// KindOf 以 image 开头视为图片，其余按视频处理
func KindOf(contentType string) model.MediaKind {
	if strings.HasPrefix(contentType, "image") {
		return model.MediaImage
	}
	return model.MediaVideo
}
