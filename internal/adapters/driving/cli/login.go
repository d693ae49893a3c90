package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/yuque-export/internal/core/services"
)

var (
	loginCookie     string
	loginCookieFile string
	loginVerify     bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store your Yuque session cookie",
	Long: `Stores the session used to call Yuque on your behalf.

Copy the Cookie request header from a logged-in browser tab on
www.yuque.com (developer tools, Network tab) and paste it when prompted,
or point --cookie-file at a Netscape cookies.txt export.

Examples:
  yuque-export login
  yuque-export login --cookie-file ~/Downloads/cookies.txt
  yuque-export login --cookie '_yuque_session=...; ctoken=...' --verify`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginCookie, "cookie", "", "raw Cookie header value")
	loginCmd.Flags().StringVar(&loginCookieFile, "cookie-file", "", "path to a Netscape cookies.txt file")
	loginCmd.Flags().BoolVar(&loginVerify, "verify", false, "check the session by listing tags")
	loginCmd.MarkFlagsMutuallyExclusive("cookie", "cookie-file")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ss, err := getSettingsService()
	if err != nil {
		return err
	}

	switch {
	case loginCookieFile != "":
		if _, err := os.Stat(loginCookieFile); err != nil {
			return fmt.Errorf("cookie file: %w", err)
		}
		if err := ss.Set(services.KeyCookieFile, loginCookieFile); err != nil {
			return fmt.Errorf("failed to save cookie file: %w", err)
		}
		cmd.Printf("Using cookies from %s\n", loginCookieFile)

	default:
		cookie := loginCookie
		if cookie == "" {
			cmd.Print("Paste the Cookie header: ")
			cookie = readSecret(cmd.InOrStdin())
			cmd.Println()
		}
		if strings.TrimSpace(cookie) == "" {
			return errors.New("no cookie given")
		}
		if err := ss.SetCookie(cookie); err != nil {
			return fmt.Errorf("failed to save cookie: %w", err)
		}
		cmd.Println("Session cookie saved.")
	}

	if !loginVerify {
		return nil
	}

	pipeline, err := getPipeline(pipelineOptions{})
	if err != nil {
		return err
	}
	tags, err := pipeline.ListTags(cmd.Context())
	if err != nil {
		return fmt.Errorf("session check failed: %w", err)
	}
	cmd.Printf("Session works: %d tags found.\n", len(tags))
	return nil
}

// readSecret reads one line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}
