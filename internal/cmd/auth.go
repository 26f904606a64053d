package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/shelf/cli/internal/controller"
)

// LoginCmd returns the `shelf login` command.
func LoginCmd(env *Env) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:          "login",
		Short:        "Log in to the shelf server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			var err error
			if email == "" {
				if email, err = p.line("email: "); err != nil {
					return err
				}
			}
			password, err := p.secret("password: ")
			if err != nil {
				return err
			}

			form := controller.NewLoginForm(env.Client, env.Gate)
			form.ChangeField(controller.FieldEmail, email)
			form.ChangeField(controller.FieldPassword, password)
			if _, err := form.Submit(cmd.Context()); err != nil {
				return explain(err)
			}

			sess, err := env.Gate.Require(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", sess.User.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

// RegisterCmd returns the `shelf register` command.
func RegisterCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:          "register",
		Short:        "Create an account",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			form := controller.NewRegisterForm(env.Client)

			steps := []struct {
				field, prompt string
				secret        bool
			}{
				{controller.FieldName, "name: ", false},
				{controller.FieldEmail, "email: ", false},
				{controller.FieldPassword, "password: ", true},
				{controller.FieldConfirmPassword, "confirm password: ", true},
			}
			for _, s := range steps {
				read := p.line
				if s.secret {
					read = p.secret
				}
				value, err := read(s.prompt)
				if err != nil {
					return err
				}
				form.ChangeField(s.field, value)
			}

			if _, err := form.Submit(cmd.Context()); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), controller.NoticeRegistered)
			return nil
		},
	}
}

// LogoutCmd returns the `shelf logout` command.
func LogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:          "logout",
		Short:        "Forget the stored session",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.Gate.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

// PasswordCmd returns the `shelf password` command group.
func PasswordCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "password",
		Short:        "Recover a forgotten password",
		SilenceUsage: true,
	}
	cmd.AddCommand(passwordForgotCmd(env))
	cmd.AddCommand(passwordResetCmd(env))
	return cmd
}

func passwordForgotCmd(env *Env) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				var err error
				if email, err = newPrompter(cmd).line("email: "); err != nil {
					return err
				}
			}
			form := controller.NewForgotPasswordForm(env.Client)
			form.ChangeField(controller.FieldEmail, email)
			if err := form.Submit(cmd.Context()); err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reset link sent to %s\n", email)
			fmt.Fprintln(out, "run 'shelf password reset --token <token>' once it arrives")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

func passwordResetCmd(env *Env) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := controller.NewResetPasswordForm(env.Client, token)
			if err := form.Err(); err != nil {
				return explain(err)
			}

			p := newPrompter(cmd)
			password, err := p.secret("new password: ")
			if err != nil {
				return err
			}
			confirm, err := p.secret("confirm password: ")
			if err != nil {
				return err
			}
			form.ChangeField(controller.FieldPassword, password)
			form.ChangeField(controller.FieldConfirmPassword, confirm)

			if _, err := form.Submit(cmd.Context()); err != nil {
				return explain(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password updated. run 'shelf login' to continue")
			return nil
		},
	}
	cmd.Flags().StringVarP(&token, "token", "t", "", "token from the reset email")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
