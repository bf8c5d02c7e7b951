package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

const (
	DefaultAuthorName   = "Current User"
	DefaultAuthorAvatar = "https://randomuser.me/api/portraits/women/68.jpg"
)

var (
	ErrEmptyComment  = errors.New("comment cannot be empty")
	ErrEmptyPost     = errors.New("post must have text or media")
	ErrDuplicatePost = errors.New("post id already exists")
	ErrPersist       = errors.New("persist posts failed")
)

// Author 发帖/评论人的展示信息，空字段使用默认值
type Author struct {
	Name   string
	Avatar string
}

func (a Author) orDefault(d Author) Author {
	if strings.TrimSpace(a.Name) == "" {
		a.Name = d.Name
	}
	if strings.TrimSpace(a.Avatar) == "" {
		a.Avatar = d.Avatar
	}
	return a
}

// PostStore 内存中的信息流，最新的在最前。每次变更后整体序列化写回 Persister
type PostStore struct {
	persist  Persister
	now      func() time.Time
	newID    func() string
	fallback Author

	mu    sync.Mutex
	posts []model.Post
}

type PostStoreOption func(*PostStore)

func WithClock(now func() time.Time) PostStoreOption {
	return func(s *PostStore) { s.now = now }
}

func WithIDGenerator(f func() string) PostStoreOption {
	return func(s *PostStore) { s.newID = f }
}

// WithDefaultAuthor sets the name and avatar used when the caller has none.
func WithDefaultAuthor(a Author) PostStoreOption {
	return func(s *PostStore) { s.fallback = a.orDefault(s.fallback) }
}

func NewPostStore(p Persister, opts ...PostStoreOption) *PostStore {
	s := &PostStore{
		persist:  p,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		fallback: Author{Name: DefaultAuthorName, Avatar: DefaultAuthorAvatar},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted one. An absent, empty or unreadable blob
// falls back to initial. Load never writes.
func (s *PostStore) Load(ctx context.Context, initial []model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.persist.Load(ctx)
	if err != nil {
		s.posts = clonePosts(initial)
		return fmt.Errorf("load posts: %w", err)
	}
	if ok && len(data) > 0 {
		var stored []model.Post
		if err := json.Unmarshal(data, &stored); err != nil {
			logger.Warn("stored posts unreadable, using initial list", zap.Error(err))
		} else if len(stored) > 0 {
			s.posts = uniquePosts(stored)
			return nil
		}
	}
	s.posts = uniquePosts(clonePosts(initial))
	return nil
}

// NewPost 组装一条新帖子；文本为空且没有媒体时拒绝
func (s *PostStore) NewPost(author Author, text string, media []model.MediaAttachment) (model.Post, error) {
	if strings.TrimSpace(text) == "" && len(media) == 0 {
		return model.Post{}, ErrEmptyPost
	}
	author = author.orDefault(s.fallback)
	return model.Post{
		ID:             s.newID(),
		Username:       author.Name,
		ProfilePicture: author.Avatar,
		Content:        text,
		Media:          append([]model.MediaAttachment{}, media...),
		Timestamp:      s.now().UTC(),
		Likes:          0,
		Comments:       []model.Comment{},
	}, nil
}

// Append puts p at the front of the feed. A post whose id is already present is rejected
// with ErrDuplicatePost and nothing is written.
func (s *PostStore) Append(ctx context.Context, p model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePost, p.ID)
	}
	s.posts = append([]model.Post{p.Clone()}, s.posts...)
	return s.save(ctx)
}

// Like 点赞 +1；id 不存在时什么也不做，返回 nil
func (s *PostStore) Like(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	s.posts[i].Likes++
	out := s.posts[i].Clone()
	return &out, s.save(ctx)
}

// Comment prepends a comment to the post. Blank text is rejected with ErrEmptyComment and
// nothing changes; an unknown id is absorbed and (nil, nil) is returned.
func (s *PostStore) Comment(ctx context.Context, id, text string, author Author) (*model.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	author = author.orDefault(s.fallback)
	c := model.Comment{
		ID:        s.newID(),
		User:      author.Name,
		Avatar:    author.Avatar,
		Content:   text,
		Timestamp: s.now().UTC(),
	}
	s.posts[i].Comments = append([]model.Comment{c}, s.posts[i].Comments...)
	out := s.posts[i].Clone()
	return &out, s.save(ctx)
}

// Clear 清空内存列表并删除持久化的 blob
func (s *PostStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	if err := s.persist.Remove(ctx); err != nil {
		logger.Warn("remove stored posts failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Posts returns a deep copy of the feed, most recent first.
func (s *PostStore) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

func (s *PostStore) Get(id string) (model.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.posts[i].Clone(), true
	}
	return model.Post{}, false
}

func (s *PostStore) indexOf(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// save 调用方持有锁；写失败时内存中的变更保留
func (s *PostStore) save(ctx context.Context) error {
	list := s.posts
	if list == nil {
		list = []model.Post{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.persist.Save(ctx, data); err != nil {
		logger.Warn("save posts failed", zap.Int("posts", len(list)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// uniquePosts 重复 id 只保留第一条
func uniquePosts(in []model.Post) []model.Post {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, p := range in {
		if _, dup := seen[p.ID]; dup {
			logger.Warn("duplicate post id dropped", zap.String("id", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func clonePosts(in []model.Post) []model.Post {
	if in == nil {
		return []model.Post{}
	}
	out := make([]model.Post, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
