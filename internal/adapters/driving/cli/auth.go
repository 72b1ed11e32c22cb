package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fabricctl/internal/adapters/driven/auth"
	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the authentication session",
	RunE:  runAuthStatus,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in using the ambient Azure CLI session",
	Long: `Acquire tokens silently from an existing 'az login' session.

The session is validated immediately and cached for later invocations.`,
	RunE: runAuthLogin,
}

var authLoginSPNCmd = &cobra.Command{
	Use:   "login-spn",
	Short: "Log in as a service principal",
	Long: `Authenticate with an application identity via the OAuth client-credential
flow. The client secret is prompted for when --client-secret is omitted.`,
	RunE: runAuthLoginSPN,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the cached session",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runAuthStatus,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a Fabric API bearer token",
	RunE:  runAuthToken,
}

var (
	spnClientID     string
	spnClientSecret string
	spnTenantID     string
	loginTenantID   string
)

func init() {
	authLoginSPNCmd.Flags().StringVar(&spnClientID, "client-id", "", "application (client) ID")
	authLoginSPNCmd.Flags().StringVar(&spnClientSecret, "client-secret", "", "client secret (prompted when omitted)")
	authLoginSPNCmd.Flags().StringVar(&spnTenantID, "tenant-id", "", "Entra tenant ID")
	authLoginCmd.Flags().StringVar(&loginTenantID, "tenant-id", "", "Entra tenant ID (optional)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLoginSPNCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authTokenCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	tenant := loginTenantID
	if tenant == "" {
		tenant = configStore.GetString(ConfigKeyTenantID)
	}

	source, err := auth.NewAzureCLISource(tenant)
	if err != nil {
		return err
	}
	if err := sessionService.Login(cmd.Context(), source); err != nil {
		return describeAuthError(err)
	}

	cmd.Println(successStyle.Render("Logged in via Azure CLI session."))
	return nil
}

func runAuthLoginSPN(cmd *cobra.Command, _ []string) error {
	tenant := spnTenantID
	if tenant == "" {
		tenant = configStore.GetString(ConfigKeyTenantID)
	}
	if spnClientID == "" || tenant == "" {
		return errors.New("--client-id and --tenant-id are required (tenant may come from config auth.tenant-id)")
	}

	secret := spnClientSecret
	if secret == "" {
		cmd.Print("Client secret: ")
		secret = readSecret()
		cmd.Println()
	}

	config := domain.ServicePrincipalConfig{
		ClientID:     spnClientID,
		ClientSecret: secret,
		TenantID:     tenant,
	}
	if err := config.Validate(); err != nil {
		return errors.New("client ID, client secret, and tenant ID must all be non-empty")
	}

	if err := sessionService.Login(cmd.Context(), auth.NewServicePrincipalSource(config)); err != nil {
		return describeAuthError(err)
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Logged in as service principal %s.", spnClientID)))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if err := sessionService.Logout(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Logged out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	status := sessionService.Status()

	if status.ManualOverride {
		cmd.Println(warnStyle.Render("Manual token override active (" + auth.EnvManualToken + " is set)."))
		cmd.Println(dimStyle.Render("The environment token is used for every request, bypassing any login."))
	}

	if !status.Authenticated {
		if !status.ManualOverride {
			cmd.Println("Not logged in. Run 'fabricctl auth login' or 'fabricctl auth login-spn'.")
		}
		return nil
	}

	cmd.Printf("Logged in (%s).\n", status.Kind)

	expiry := status.ExpiresAt
	if expiry.IsZero() {
		// Manual and restored tokens may carry their expiry only inside
		// the JWT itself.
		if token, err := sessionService.BearerToken(cmd.Context()); err == nil {
			if exp, ok := tokenExpiry(token); ok {
				expiry = exp
			}
		}
	}
	if !expiry.IsZero() {
		remaining := time.Until(expiry).Round(time.Second)
		if remaining > 0 {
			cmd.Printf("Token expires at %s (in %s).\n", expiry.Local().Format(time.RFC3339), remaining)
		} else {
			cmd.Println("Cached token has expired; it will be refreshed on the next request.")
		}
	}
	return nil
}

func runAuthToken(cmd *cobra.Command, _ []string) error {
	token, err := sessionService.BearerToken(cmd.Context())
	if err != nil {
		return describeAuthError(err)
	}
	// Bare token on stdout so it can be piped into curl etc.
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// token was just issued to us; this is display only.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// describeAuthError adds a next-step hint to auth failures.
func describeAuthError(err error) error {
	switch domain.AuthReasonOf(err) {
	case domain.AuthNotLoggedIn:
		return fmt.Errorf("%w (run 'fabricctl auth login' or 'fabricctl auth login-spn')", err)
	case domain.AuthNoInteractiveSession:
		return fmt.Errorf("%w (run 'az login' first)", err)
	default:
		return err
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
