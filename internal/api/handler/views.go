package handler

import (
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
)

// AuthView 未登录时唯一可见的视图：登录与注册合在一起
type AuthView struct {
	View    string   `json:"view"`
	Actions []string `json:"actions"`
}

func LoginView() interface{} {
	return AuthView{
		View:    "auth",
		Actions: []string{"/auth/login", "/auth/register", "/auth/federated"},
	}
}

type FeedView struct {
	View  string         `json:"view"`
	User  *identity.User `json:"user"`
	Posts []model.Post   `json:"posts"`
}

type ComposerView struct {
	View          string         `json:"view"`
	User          *identity.User `json:"user"`
	MaxFiles      int            `json:"maxFiles"`
	MaxFileSize   int64          `json:"maxFileSize"`
	AcceptedTypes []string       `json:"acceptedTypes"`
}

type ProfileView struct {
	View    string         `json:"view"`
	User    *identity.User `json:"user"`
	Profile *model.Profile `json:"profile"`
}

type UploadView struct {
	Attachments []model.MediaAttachment `json:"attachments"`
	Rejections  []media.Rejection       `json:"rejections"`
}
