package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

// joinDateLayout 与身份服务 metadata.creationTime 的格式一致
const joinDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

var ErrInvalidAvatar = errors.New("invalid avatar file")

// ProfileSession is the part of identity.Session the profile store writes through.
type ProfileSession interface {
	UpdateProfile(ctx context.Context, upd identity.ProfileUpdate) (*identity.User, error)
}

// MediaUploader is satisfied by *media.Adapter.
type MediaUploader interface {
	Upload(ctx context.Context, files []media.File, existing, max int) (*media.Result, error)
}

// PartialSaveError 保存资料时两个写入至少一个失败；没有回滚，成功的一侧已经生效
type PartialSaveError struct {
	AuthErr     error
	DocumentErr error
}

func (e *PartialSaveError) Error() string {
	switch {
	case e.AuthErr != nil && e.DocumentErr != nil:
		return fmt.Sprintf("profile not saved: display name: %v; details: %v", e.AuthErr, e.DocumentErr)
	case e.AuthErr != nil:
		return fmt.Sprintf("profile partially saved: details saved, display name failed: %v", e.AuthErr)
	default:
		return fmt.Sprintf("profile partially saved: display name saved, details failed: %v", e.DocumentErr)
	}
}

func (e *PartialSaveError) Unwrap() []error {
	var errs []error
	if e.AuthErr != nil {
		errs = append(errs, e.AuthErr)
	}
	if e.DocumentErr != nil {
		errs = append(errs, e.DocumentErr)
	}
	return errs
}

// ProfileService 个人资料：显示名/头像在身份服务，其余字段在文档库 profiles 集合
type ProfileService struct {
	session  ProfileSession
	docs     repository.ProfileRepository
	posts    repository.PostDocumentRepository
	uploader MediaUploader
}

func NewProfileService(session ProfileSession, docs repository.ProfileRepository, posts repository.PostDocumentRepository, uploader MediaUploader) *ProfileService {
	return &ProfileService{session: session, docs: docs, posts: posts, uploader: uploader}
}

// Load returns the profile of u. A missing document yields empty fields and a join date taken
// from the account creation time.
func (s *ProfileService) Load(ctx context.Context, u identity.User) (*model.Profile, error) {
	p := &model.Profile{
		UserID:      u.UID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
	doc, err := s.docs.Get(ctx, u.UID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	default:
		p.Bio = doc.Bio
		p.Location = doc.Location
		p.Occupation = doc.Occupation
		p.Website = doc.Website
		p.JoinDate = doc.JoinDate
	}
	if p.JoinDate == "" {
		p.JoinDate = defaultJoinDate(u)
	}
	return p, nil
}

// Save 先写显示名再写文档，两边都会尝试。任一失败返回 *PartialSaveError
func (s *ProfileService) Save(ctx context.Context, u identity.User, in model.Profile) (*model.Profile, error) {
	name := strings.TrimSpace(in.DisplayName)
	out := in
	out.UserID = u.UID
	out.DisplayName = name
	out.PhotoURL = u.PhotoURL
	if out.JoinDate == "" {
		out.JoinDate = defaultJoinDate(u)
	}

	var authErr, docErr error
	updated, err := s.session.UpdateProfile(ctx, identity.ProfileUpdate{DisplayName: &name})
	if err != nil {
		authErr = err
		out.DisplayName = u.DisplayName
		logger.Warn("profile display name update failed", zap.String("uid", u.UID), zap.Error(err))
	} else if updated != nil {
		out.PhotoURL = updated.PhotoURL
	}

	doc := &model.ProfileDocument{
		UserID:     u.UID,
		Bio:        strings.TrimSpace(in.Bio),
		Location:   strings.TrimSpace(in.Location),
		Occupation: strings.TrimSpace(in.Occupation),
		Website:    strings.TrimSpace(in.Website),
		JoinDate:   out.JoinDate,
	}
	if err := s.docs.Upsert(ctx, doc); err != nil {
		docErr = err
		logger.Warn("profile document update failed", zap.String("uid", u.UID), zap.Error(err))
	} else {
		out.Bio, out.Location, out.Occupation, out.Website = doc.Bio, doc.Location, doc.Occupation, doc.Website
	}

	if authErr != nil || docErr != nil {
		return &out, &PartialSaveError{AuthErr: authErr, DocumentErr: docErr}
	}
	return &out, nil
}

// UpdateAvatar uploads one image and points the account photo at it.
func (s *ProfileService) UpdateAvatar(ctx context.Context, f media.File) (*identity.User, error) {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return nil, fmt.Errorf("%w: %s is not an image", ErrInvalidAvatar, f.Name)
	}
	res, err := s.uploader.Upload(ctx, []media.File{f}, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(res.Attachments) == 0 {
		reason := "upload rejected"
		if len(res.Rejections) > 0 {
			reason = res.Rejections[0].Reason
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidAvatar, reason)
	}
	url := res.Attachments[0].URL
	return s.session.UpdateProfile(ctx, identity.ProfileUpdate{PhotoURL: &url})
}

// UserPosts 文档库中该用户的帖子，按时间倒序
func (s *ProfileService) UserPosts(ctx context.Context, uid string, page, pageSize int) ([]*model.PostDocument, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.posts.ListByUser(ctx, uid, (page-1)*pageSize, pageSize)
}

func defaultJoinDate(u identity.User) string {
	if u.CreatedAt.IsZero() {
		return ""
	}
	return u.CreatedAt.UTC().Format(joinDateLayout)
}
