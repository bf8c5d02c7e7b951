package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/database"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	posts  *service.PostStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		_, fh, _ := r.FormFile("file")
		name := "unknown"
		if fh != nil {
			name = fh.Filename
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn.example.com/" + name})
	}))
	t.Cleanup(host.Close)

	provider := identity.NewLocalProvider(repository.NewUserRepository(db), "router-secret", time.Hour, nil)
	session := identity.NewSession(provider, nil)
	store := service.NewPostStore(service.NewBlobPersister(repository.NewSQLBlobRepository(db), "socialMediaPosts"))
	require.NoError(t, store.Load(context.Background(), nil))
	uploader := media.NewAdapter(media.NewHostedMediaClient(host.URL, "demo", "WebApp", 5*time.Second))
	profiles := service.NewProfileService(session, repository.NewProfileRepository(db), repository.NewPostDocumentRepository(db), uploader)

	h := handler.New(session, store, profiles, uploader, handler.Options{MaxFiles: 5, MaxFileSize: media.MaxFileSize})
	r, err := NewRouter(h, RouterOptions{ServiceName: "social-feed-test"})
	require.NoError(t, err)
	return &testApp{t: t, router: r, posts: store}
}

func (a *testApp) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.serve(req)
}

func (a *testApp) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	var env envelope
	if w.Code != http.StatusFound {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (a *testApp) register() {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/auth/register", map[string]string{"email": "zoe@example.com", "password": "secret!"})
	require.Equal(a.t, http.StatusOK, w.Code)
}

func TestRouter_SignedOutShowsAuthView(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/feed", "/profile", "/create-post"} {
		w, env := app.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		view := decode[handler.AuthView](t, env.Data)
		assert.Equal(t, "auth", view.View)
	}

	w, _ := app.do(http.MethodGet, "/somewhere/else", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/feed", w.Header().Get("Location"))
}

func TestRouter_AuthFlow(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(http.MethodPost, "/auth/register", map[string]string{"email": "zoe@example.com", "password": "secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters long and contain a special character", env.Message)

	w, env = app.do(http.MethodPost, "/auth/register", map[string]string{"email": "bad", "password": "secret!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is invalid", env.Message)

	app.register()

	w, env = app.do(http.MethodPost, "/auth/register", map[string]string{"email": "zoe@example.com", "password": "secret!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This email is already registered. Please login.", env.Message)

	w, env = app.do(http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "zoe@example.com", decode[identity.User](t, env.Data).Email)

	w, _ = app.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodGet, "/feed", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = app.do(http.MethodPost, "/auth/login", map[string]string{"email": "zoe@example.com", "password": "wrong!!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password. Please try again.", env.Message)

	w, env = app.do(http.MethodPost, "/auth/login", map[string]string{"email": "nobody@example.com", "password": "secret!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No user found with this email. Please register.", env.Message)

	w, _ = app.do(http.MethodPost, "/auth/login", map[string]string{"email": "zoe@example.com", "password": "secret!"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodGet, "/feed", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_FeedActions(t *testing.T) {
	app := newTestApp(t)
	app.register()

	w, env := app.do(http.MethodPost, "/create-post", map[string]any{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Post cannot be empty", env.Message)

	w, env = app.do(http.MethodPost, "/create-post", map[string]any{"content": "first post"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}](t, env.Data)
	assert.Equal(t, service.DefaultAuthorName, created.Username)

	w, env = app.do(http.MethodPost, "/feed/posts/"+created.ID+"/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"likes":1`)

	w, env = app.do(http.MethodPost, "/feed/posts/missing/like", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, []string{"", "null"}, string(env.Data))

	w, env = app.do(http.MethodPost, "/feed/posts/"+created.ID+"/comments", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Comment cannot be empty", env.Message)

	w, _ = app.do(http.MethodPost, "/feed/posts/"+created.ID+"/comments", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(http.MethodGet, "/feed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[handler.FeedView](t, env.Data)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, 1, feed.Posts[0].Likes)
	require.Len(t, feed.Posts[0].Comments, 1)
	assert.Equal(t, "hello", feed.Posts[0].Comments[0].Content)

	w, _ = app.do(http.MethodPost, "/feed/clear", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, app.posts.Posts())
}

func TestRouter_UploadMediaAndPost(t *testing.T) {
	app := newTestApp(t)
	app.register()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	addFile := func(name, ct string, data []byte) {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write(data)
	}
	addFile("a.png", "image/png", []byte("png-a"))
	addFile("b.mp4", "video/mp4", []byte("mp4-b"))
	addFile("c.txt", "text/plain", []byte("text"))
	require.NoError(t, mw.WriteField("existing", "0"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/create-post/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := app.serve(req)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	up := decode[handler.UploadView](t, env.Data)
	require.Len(t, up.Attachments, 2)
	require.Len(t, up.Rejections, 1)
	assert.Equal(t, "c.txt", up.Rejections[0].Name)

	w, env = app.do(http.MethodPost, "/create-post", map[string]any{"content": "", "media": up.Attachments})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	posts := app.posts.Posts()
	require.Len(t, posts, 1)
	assert.Len(t, posts[0].Media, 2)

	// 超出上限整批拒绝
	var buf2 bytes.Buffer
	mw = multipart.NewWriter(&buf2)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="files"; filename="x.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("x"))
	require.NoError(t, mw.WriteField("existing", "5"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/create-post/media", &buf2)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env = app.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Maximum 5 media files allowed.", env.Message)
}

func TestRouter_Profile(t *testing.T) {
	app := newTestApp(t)
	app.register()

	w, env := app.do(http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[handler.ProfileView](t, env.Data)
	assert.Empty(t, view.Profile.Bio)
	assert.NotEmpty(t, view.Profile.JoinDate)

	w, env = app.do(http.MethodPut, "/profile", map[string]string{"displayName": "Zoe", "bio": "hi", "website": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code, env.Message)

	w, env = app.do(http.MethodPut, "/profile", map[string]string{"displayName": "Zoe", "bio": "hi", "website": "https://zoe.example.com"})
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, env = app.do(http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[handler.ProfileView](t, env.Data)
	assert.Equal(t, "Zoe", view.Profile.DisplayName)
	assert.Equal(t, "Zoe", view.User.DisplayName)
	assert.Equal(t, "hi", view.Profile.Bio)

	// 新帖子使用更新后的显示名
	w, env = app.do(http.MethodPost, "/create-post", map[string]any{"content": "named"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(env.Data), `"username":"Zoe"`)

	w, env = app.do(http.MethodGet, "/profile/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"page":1`)
}
