package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/gateway"
	"github.com/jonathan/freelance-agent/internal/skills"
	"github.com/jonathan/freelance-agent/internal/types"
)

// passwordEnv lets scripts avoid passing the password on the command line.
const passwordEnv = "FREELANCE_PASSWORD"

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	authEmail      string
	authPassword   string
	registerName   string
	registerSkills string
	registerLevel  string
	registerRate   float64
)

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		cmd.Flags().StringVar(&authPassword, "password", "", "Account password (or set "+passwordEnv+")")
		_ = cmd.MarkFlagRequired("email")
	}

	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerSkills, "skills", "", "Comma-separated skills, e.g. \"Go, PostgreSQL\"")
	registerCmd.Flags().StringVar(&registerLevel, "experience", "", "Experience level, e.g. intermediate")
	registerCmd.Flags().Float64Var(&registerRate, "rate", 0, "Hourly rate in USD")

	rootCmd.AddCommand(pingCmd, registerCmd, loginCmd, logoutCmd, whoamiCmd)
}

func password() string {
	if authPassword != "" {
		return authPassword
	}
	return os.Getenv(passwordEnv)
}

func runPing(cmd *cobra.Command, _ []string) error {
	a := current
	status, err := a.client.Ping(cmd.Context())
	if err != nil {
		return fmt.Errorf("backend at %s is not reachable: %w", a.cfg.APIURL, err)
	}
	a.printer.PrintMessage("%s (%s)", status.Message, status.Status)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	a := current
	req := &types.RegisterRequest{
		Email:           authEmail,
		Password:        password(),
		FullName:        registerName,
		Skills:          skills.JoinTags(strings.Split(registerSkills, ",")),
		ExperienceLevel: registerLevel,
		HourlyRate:      registerRate,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}

	resp, err := a.client.Register(cmd.Context(), req)
	if err != nil {
		return err
	}

	if resp.Message != "" {
		a.printer.PrintMessage("%s", resp.Message)
	}
	if sess, ok := a.store.Current(); ok {
		a.printer.PrintMessage("Signed in as %s.", sess.User.DisplayName())
	} else {
		a.printer.PrintMessage("Run `freelance_agent login --email %s` to sign in.", authEmail)
	}
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a := current
	req := &types.LoginRequest{Email: authEmail, Password: password()}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid login: %w", err)
	}

	resp, err := a.client.Login(cmd.Context(), req)
	if err != nil {
		// A 401 here means bad credentials, not an expired session.
		var authErr *gateway.AuthRequiredError
		if errors.As(err, &authErr) {
			return fmt.Errorf("login failed: %s", authErr.Error())
		}
		return err
	}

	if !a.store.IsAuthenticated() {
		return fmt.Errorf("login failed: the backend did not return a session")
	}
	a.printer.PrintMessage("Logged in as %s.", resp.User.DisplayName())
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a := current
	err := a.client.Logout(cmd.Context())
	a.printer.PrintMessage("Logged out.")
	if err != nil {
		return fmt.Errorf("backend logout failed (local session cleared): %w", err)
	}
	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	a := current
	sess, ok := a.store.Current()
	if !ok {
		return errNotLoggedIn
	}
	a.printer.PrintUser(sess.User)
	if exp, ok := sess.ExpiresAt(); ok {
		a.printer.PrintMessage("Session token expires %s.", exp.Local().Format(time.RFC1123))
	}
	return nil
}
