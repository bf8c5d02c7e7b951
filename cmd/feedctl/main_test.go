package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/model"
)

func testLoader(t *testing.T) func() (*config.Config, error) {
	dsn := filepath.Join(t.TempDir(), "feed.db")
	return func() (*config.Config, error) {
		return &config.Config{
			Database: config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1},
			Blob:     config.BlobConfig{Backend: "sql", Key: "socialMediaPosts"},
			Auth:     config.AuthConfig{Provider: "local", JWTSecret: "cli-secret", TokenTTL: time.Hour},
			Media:    config.MediaConfig{BaseURL: "http://127.0.0.1:1", CloudName: "demo", UploadPreset: "WebApp", MaxFiles: 5, MaxFileSize: 10 << 20, Timeout: time.Second},
			Profile:  config.ProfileConfig{DefaultName: "Current User", DefaultAvatar: "https://example.com/a.png"},
		}, nil
	}
}

func run(t *testing.T, load func() (*config.Config, error), args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(load)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestFeedctl_PostLikeCommentList(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "post", "--text", "hello from cli")
	require.NoError(t, err)
	var p model.Post
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "hello from cli", p.Content)
	assert.Equal(t, "Current User", p.Username)

	_, err = run(t, load, "post", "--text", "  ")
	assert.Error(t, err)

	_, err = run(t, load, "like", p.ID)
	require.NoError(t, err)
	_, err = run(t, load, "comment", p.ID, "nice")
	require.NoError(t, err)
	_, err = run(t, load, "comment", p.ID, "   ")
	assert.Error(t, err)

	out, err = run(t, load, "list")
	require.NoError(t, err)
	var posts []model.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].Likes)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, "nice", posts[0].Comments[0].Content)

	_, err = run(t, load, "clear")
	require.NoError(t, err)
	out, err = run(t, load, "list")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestFeedctl_AccountAndProfile(t *testing.T) {
	load := testLoader(t)

	_, err := run(t, load, "register", "--email", "cli@example.com", "--password", "secret!")
	require.NoError(t, err)

	_, err = run(t, load, "profile", "show")
	assert.Error(t, err)

	_, err = run(t, load, "whoami", "--email", "cli@example.com", "--password", "wrong!!")
	assert.EqualError(t, err, "Incorrect password. Please try again.")

	out, err := run(t, load, "profile", "set", "--name", "Cli", "--bio", "from the shell", "--email", "cli@example.com", "--password", "secret!")
	require.NoError(t, err)
	assert.Contains(t, out, `"bio": "from the shell"`)

	out, err = run(t, load, "profile", "show", "--email", "cli@example.com", "--password", "secret!")
	require.NoError(t, err)
	var prof model.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &prof))
	assert.Equal(t, "Cli", prof.DisplayName)
	assert.Equal(t, "from the shell", prof.Bio)

	tok, err := run(t, load, "assertion", "fed@example.com", "--name", "Fed")
	require.NoError(t, err)
	out, err = run(t, load, "whoami", "--id-token", strings.TrimSpace(tok))
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "fed@example.com"`)
}
