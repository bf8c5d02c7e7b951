package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
)

func (c *cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account with --email and --password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.app.Session.Register(cmd.Context(), c.email, c.password)
			if err != nil {
				return errors.New(identity.Message(identity.OpRegister, err))
			}
			return printJSON(cmd, u)
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, c.app.Session.Current())
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the signed-in user's profile",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.requireUser()
			if err != nil {
				return err
			}
			p, err := c.app.Profiles.Load(cmd.Context(), *u)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	})

	var in model.Profile
	set := &cobra.Command{
		Use:   "set",
		Short: "Save the profile; unset flags keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.requireUser()
			if err != nil {
				return err
			}
			cur, err := c.app.Profiles.Load(cmd.Context(), *u)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("name") {
				cur.DisplayName = in.DisplayName
			}
			if fl.Changed("bio") {
				cur.Bio = in.Bio
			}
			if fl.Changed("location") {
				cur.Location = in.Location
			}
			if fl.Changed("occupation") {
				cur.Occupation = in.Occupation
			}
			if fl.Changed("website") {
				cur.Website = in.Website
			}
			p, err := c.app.Profiles.Save(cmd.Context(), *u, *cur)
			if perr := printJSON(cmd, p); perr != nil {
				return perr
			}
			return err
		},
	}
	set.Flags().StringVar(&in.DisplayName, "name", "", "display name")
	set.Flags().StringVar(&in.Bio, "bio", "", "bio")
	set.Flags().StringVar(&in.Location, "location", "", "location")
	set.Flags().StringVar(&in.Occupation, "occupation", "", "occupation")
	set.Flags().StringVar(&in.Website, "website", "", "website")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload a new avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireUser(); err != nil {
				return err
			}
			f, err := media.FileFromPath(args[0])
			if err != nil {
				return err
			}
			u, err := c.app.Profiles.UpdateAvatar(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	})

	var page, size int
	posts := &cobra.Command{
		Use:   "posts",
		Short: "List the user's posts in the document store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.requireUser()
			if err != nil {
				return err
			}
			list, err := c.app.Profiles.UserPosts(cmd.Context(), u.UID, page, size)
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
	posts.Flags().IntVar(&page, "page", 1, "page")
	posts.Flags().IntVar(&size, "page-size", 20, "page size")
	cmd.AddCommand(posts)
	return cmd
}

// assertionCmd 本地身份提供方专用：签发一个 federated 登录用的断言
func (c *cli) assertionCmd() *cobra.Command {
	var name, picture string
	cmd := &cobra.Command{
		Use:   "assertion <email>",
		Short: "Issue a federated sign-in assertion (local provider only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.app.Local == nil {
				return errors.New("assertion requires auth.provider=local")
			}
			tok, err := c.app.Local.IssueAssertion(args[0], name, picture)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&picture, "picture", "", "avatar URL")
	return cmd
}
