package model

import "time"

// MediaKind 媒体类型
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaAttachment 帖子里的外部托管媒体，创建后不可变
type MediaAttachment struct {
	ID   string    `json:"id"`
	URL  string    `json:"url"`
	Type MediaKind `json:"type"`
}

// Comment 评论，按时间倒序挂在所属帖子上
type Comment struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Post 信息流条目。JSON 字段名与本地 blob 的格式保持一致
type Post struct {
	ID             string            `json:"id"`
	Username       string            `json:"username"`
	ProfilePicture string            `json:"profilePicture"`
	Content        string            `json:"content"`
	Media          []MediaAttachment `json:"media"`
	Timestamp      time.Time         `json:"timestamp"`
	Likes          int               `json:"likes"`
	Comments       []Comment         `json:"comments"`
}

// Clone 深拷贝，避免调用方改到 store 内部的切片
func (p Post) Clone() Post {
	out := p
	if p.Media != nil {
		out.Media = make([]MediaAttachment, len(p.Media))
		copy(out.Media, p.Media)
	}
	if p.Comments != nil {
		out.Comments = make([]Comment, len(p.Comments))
		copy(out.Comments, p.Comments)
	}
	return out
}
