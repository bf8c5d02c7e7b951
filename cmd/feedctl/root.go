package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/app"
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

type cli struct {
	load func() (*config.Config, error)
	app  *app.App

	email    string
	password string
	idToken  string
	provider string
	logLevel string
}

func newRootCmd(load func() (*config.Config, error)) *cobra.Command {
	c := &cli{load: load}
	root := &cobra.Command{
		Use:           "feedctl",
		Short:         "Social feed client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown(cmd)
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&c.email, "email", "", "sign in with this email before running the command")
	f.StringVar(&c.password, "password", "", "password for --email")
	f.StringVar(&c.idToken, "id-token", "", "federated identity token to sign in with")
	f.StringVar(&c.provider, "provider", "google.com", "federated provider id for --id-token")
	f.StringVar(&c.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		c.listCmd(), c.postCmd(), c.likeCmd(), c.commentCmd(), c.clearCmd(),
		c.uploadCmd(), c.registerCmd(), c.whoamiCmd(), c.profileCmd(), c.assertionCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if err := logger.Init(c.logLevel, true); err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.app = a

	ctx := cmd.Context()
	switch {
	case c.idToken != "":
		_, err = a.Session.SignInWithIdP(ctx, c.provider, c.idToken)
	case c.email != "" && cmd.Name() != "register":
		_, err = a.Session.SignIn(ctx, c.email, c.password)
	}
	if err != nil {
		return errors.New(identity.Message(identity.OpSignIn, err))
	}
	return nil
}

func (c *cli) teardown(cmd *cobra.Command) error {
	if c.app == nil {
		return nil
	}
	_ = c.app.Session.SignOut(cmd.Context())
	_ = logger.Sync()
	return c.app.Close()
}

// author 已登录时用账号信息，否则使用默认作者
func (c *cli) author() service.Author {
	u := c.app.Session.Current()
	if u == nil {
		return service.Author{}
	}
	return service.Author{Name: u.DisplayName, Avatar: u.PhotoURL}
}

func (c *cli) requireUser() (*identity.User, error) {
	u := c.app.Session.Current()
	if u == nil {
		return nil, errors.New("sign in first: pass --email/--password or --id-token")
	}
	return u, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
