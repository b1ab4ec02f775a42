package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Sign in, sign out, create an account, or check the current session.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email or username",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored token",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(whoamiCmd)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label + ": ")
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func promptPassword(label string) string {
	fmt.Print(label + ": ")
	raw, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(raw)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	identifier := prompt(reader, "Email or username")
	password := promptPassword("Password")

	fmt.Println("Signing in...")
	if err := a.Session.Login(context.Background(), identifier, password); err != nil {
		return err
	}

	user := a.Session.User()
	fmt.Printf("Signed in as %s\n", user.Email)

	// Warm the favourites set so the TUI starts consistent
	if err := a.Favs.Load(context.Background()); err == nil {
		fmt.Printf("%d favourite(s) loaded\n", a.Favs.Count())
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if a.Session.Token() == "" {
		fmt.Println("Not signed in.")
		return nil
	}

	a.Logout(context.Background())
	fmt.Println("Signed out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	name := prompt(reader, "Name")
	email := prompt(reader, "Email")
	username := prompt(reader, "Username")
	phone := prompt(reader, "Phone (optional)")

	if email == "" || username == "" {
		return fmt.Errorf("email and username are required")
	}

	password := promptPassword("Password")
	confirm := promptPassword("Confirm password")
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	fmt.Println("Creating account...")
	user, err := a.Session.Register(context.Background(), name, email, username, password, phone)
	if err != nil {
		return err
	}

	fmt.Printf("Account created for %s. Run 'voltmart auth login' to sign in.\n", user.Email)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	switch {
	case a.Session.IsAuthenticated():
		fmt.Printf("Signed in as %s\n", a.Session.User().Email)
	case a.Session.Token() != "":
		fmt.Println("Token present, identity not confirmed yet. Sign in again if requests fail.")
	default:
		fmt.Println("Not signed in.")
	}
	fmt.Printf("Server: %s\n", a.Client.BaseURL())
	return nil
}
