package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/state"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if app.interactive() {
				if err := promptCredentials(&email, &password); err != nil {
					return err
				}
			}
			if err := app.Auth.Login(ctx, email, password); err != nil {
				return failure(app.Auth, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("登录成功"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var email, password, confirm, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if app.interactive() {
				if err := promptSignup(&email, &password, &confirm, &name); err != nil {
					return err
				}
			}
			err := app.Auth.Register(ctx, email, password, confirm, name)
			switch {
			case errors.Is(err, state.ErrVerificationPending):
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render(app.Auth.LastError()))
				return nil
			case err != nil:
				return failure(app.Auth, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("注册成功，已登录"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password again")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(context.Background()); err != nil {
				return failure(app.Auth, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("已退出登录"))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !app.Auth.LoggedIn() {
				fmt.Fprintln(out, formatter.Dim("未登录"))
				return nil
			}
			p, err := app.Home.Profile(context.Background())
			if err != nil {
				return failure(app.Home, err)
			}
			fmt.Fprintf(out, "%s %s\n", formatter.Bold(p.DisplayName), formatter.TruncID(p.ID))
			return nil
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Home.Profile(context.Background())
			if err != nil {
				return failure(app.Home, err)
			}
			lines := []string{
				fmt.Sprintf("昵称  %s", formatter.Bold(p.DisplayName)),
				fmt.Sprintf("ID    %s", formatter.Dim(p.ID)),
			}
			if p.AvatarURL != "" {
				lines = append(lines, fmt.Sprintf("头像  %s", formatter.StyleBlue.Render(p.AvatarURL)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("个人资料", strings.Join(lines, "\n")))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Change your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Home.Rename(context.Background(), strings.TrimSpace(args[0]))
			if err != nil {
				return failure(app.Home, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("昵称已更新为 "+p.DisplayName))
			return nil
		},
	})

	return cmd
}

func newTipCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Show today's health tip",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "💡 "+app.Home.Tip(context.Background()))
			return nil
		},
	}
}
