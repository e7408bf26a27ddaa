// ABOUTME: Authentication commands: login, logout, whoami and token
// ABOUTME: Prompts for missing credentials with huh and reports session state

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tokenstore"
	"github.com/kimguny/xpg-admin/internal/tui/login"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
)

var (
	loginID  string
	password string
)

// promptCredentials asks for whatever the flags did not provide
var promptCredentials = func(creds *model.LoginRequest) error {
	var fields []huh.Field
	if creds.LoginID == "" {
		fields = append(fields, huh.NewInput().Title("Login ID").Value(&creds.LoginID))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&creds.Password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.FormTheme()).Run()
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the credential",
	Long: `Sign in with an administrator account. Missing values are prompted for.

Example:
  xpg-admin login -u admin`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runLogin)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runLogout)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Restore the stored session and show who is signed in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runWhoami)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the claims of the stored credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runToken)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginID, "login-id", "u", "", "Login ID")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, tokenCmd)
}

func runLogin(s *cliSession, w io.Writer) error {
	creds := model.LoginRequest{LoginID: strings.TrimSpace(loginID), Password: password}
	if err := promptCredentials(&creds); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("%w: login cancelled", errUsage)
		}
		return err
	}

	user, err := s.rt.Session.Login(s.ctx, creds)
	if err != nil {
		if text := login.ErrorText(err); text == login.InvalidCredentials || text == login.Unreachable {
			return fmt.Errorf("%s: %w", text, err)
		}
		return err
	}

	if IsJSONOutput() {
		return writeJSON(w, user)
	}
	fmt.Fprintf(w, "Logged in as %s (%s)\n", user.DisplayName(), user.LoginID)
	return nil
}

func runLogout(s *cliSession, w io.Writer) error {
	if err := s.rt.Session.Logout(s.ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "Logged out")
	return nil
}

func runWhoami(s *cliSession, w io.Writer) error {
	if err := s.rt.Session.Restore(s.ctx); err != nil {
		return err
	}

	state := s.rt.Session.State()
	if IsJSONOutput() {
		if err := writeJSON(w, map[string]any{
			"authenticated": state.IsAuthenticated,
			"user":          state.User,
			"backend":       s.cfg.APIOrigin,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(s.cfg.APIOrigin, state.User))
	}

	if !state.IsAuthenticated {
		return errNotSignedIn
	}
	return nil
}

// formatWhoamiHuman formats the restored profile for human readability
func formatWhoamiHuman(origin string, user *model.User) string {
	if user == nil {
		return fmt.Sprintf("Backend:   %s\nSigned in: no", origin)
	}
	return fmt.Sprintf(`Backend:   %s
Signed in: yes
Login ID:  %s
Nickname:  %s
Role:      %s`, origin, user.LoginID, user.DisplayName(), user.Role)
}

func runToken(s *cliSession, w io.Writer) error {
	token, ok := s.rt.Store.Get()
	if !ok {
		return errNotSignedIn
	}

	claims, err := tokenstore.Inspect(token)
	opaque := errors.Is(err, tokenstore.ErrNotJWT)
	if err != nil && !opaque {
		return err
	}

	if IsJSONOutput() {
		return writeJSON(w, map[string]any{
			"opaque": opaque,
			"claims": claims,
		})
	}
	fmt.Fprintln(w, formatClaimsHuman(claims, opaque, time.Now()))
	return nil
}

// formatClaimsHuman formats token claims for human readability
func formatClaimsHuman(c tokenstore.Claims, opaque bool, now time.Time) string {
	if opaque {
		return "Stored credential is opaque (not a JWT)"
	}

	expires := "never"
	if !c.ExpiresAt.IsZero() {
		expires = c.ExpiresAt.Local().Format(time.RFC3339)
		if c.ExpiresAt.Before(now) {
			expires += " (expired)"
		} else {
			expires += fmt.Sprintf(" (in %s)", c.ExpiresAt.Sub(now).Round(time.Minute))
		}
	}

	issued := "-"
	if !c.IssuedAt.IsZero() {
		issued = c.IssuedAt.Local().Format(time.RFC3339)
	}

	return fmt.Sprintf(`Subject: %s
Issuer:  %s
Issued:  %s
Expires: %s`, c.Subject, c.Issuer, issued, expires)
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
