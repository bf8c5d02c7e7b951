package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/service"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the feed, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, c.app.Posts.Posts())
		},
	}
}

func (c *cli) postCmd() *cobra.Command {
	var text string
	var paths []string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a post with optional media files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var attachments []model.MediaAttachment
			if len(paths) > 0 {
				res, err := c.upload(cmd, paths, 0)
				if err != nil {
					return err
				}
				attachments = res.Attachments
			}
			p, err := c.app.Posts.NewPost(c.author(), text, attachments)
			if errors.Is(err, service.ErrEmptyPost) {
				return errors.New("post cannot be empty")
			}
			if err != nil {
				return err
			}
			if err := c.app.Posts.Append(cmd.Context(), p); err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "post text")
	cmd.Flags().StringSliceVarP(&paths, "media", "m", nil, "image or video files to attach")
	return cmd
}

func (c *cli) likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Posts.Like(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Posts.Comment(cmd.Context(), args[0], args[1], c.author())
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every post and the stored feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Posts.Clear(cmd.Context())
		},
	}
}

func (c *cli) uploadCmd() *cobra.Command {
	var existing int
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload media files and print the attachments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.upload(cmd, args, existing)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().IntVar(&existing, "existing", 0, "media already attached to the draft")
	return cmd
}

func (c *cli) upload(cmd *cobra.Command, paths []string, existing int) (*media.Result, error) {
	files := make([]media.File, 0, len(paths))
	for _, p := range paths {
		f, err := media.FileFromPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	res, err := c.app.Uploader.Upload(cmd.Context(), files, existing, c.app.Config.Media.MaxFiles)
	if err != nil {
		return nil, err
	}
	for _, r := range res.Rejections {
		fmt.Fprintln(cmd.ErrOrStderr(), r.Reason)
	}
	return res, nil
}
