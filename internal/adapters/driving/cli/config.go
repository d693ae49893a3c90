package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `Shows the effective settings or changes one key in config.toml.

Run 'yuque-export config keys' for the list of supported keys.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Validates and stores one configuration key.

Examples:
  yuque-export config set export.output_dir ~/Documents/yuque
  yuque-export config set export.timezone Asia/Shanghai
  yuque-export config set details.concurrency 3`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

// settingsView is the printable form of domain.Settings.
type settingsView struct {
	BaseURL           string  `json:"base_url" yaml:"base_url"`
	UserAgent         string  `json:"user_agent" yaml:"user_agent"`
	HTTPTimeout       string  `json:"http_timeout" yaml:"http_timeout"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Cookie            string  `json:"cookie" yaml:"cookie"`
	CookieFile        string  `json:"cookie_file,omitempty" yaml:"cookie_file,omitempty"`
	PageSize          int     `json:"page_size" yaml:"page_size"`
	ResultCap         int     `json:"result_cap" yaml:"result_cap"`
	ListingTimeout    string  `json:"listing_timeout" yaml:"listing_timeout"`
	PageDelay         string  `json:"page_delay" yaml:"page_delay"`
	Concurrency       int     `json:"concurrency" yaml:"concurrency"`
	ChunkDelay        string  `json:"chunk_delay" yaml:"chunk_delay"`
	OutputDir         string  `json:"output_dir" yaml:"output_dir"`
	IncludeTitle      bool    `json:"include_title" yaml:"include_title"`
	IncludeTime       bool    `json:"include_time" yaml:"include_time"`
	IncludeTags       bool    `json:"include_tags" yaml:"include_tags"`
	Timezone          string  `json:"timezone" yaml:"timezone"`
	DataDir           string  `json:"data_dir" yaml:"data_dir"`
}

func newSettingsView(s *domain.Settings) settingsView {
	return settingsView{
		BaseURL:           s.Upstream.BaseURL,
		UserAgent:         s.Upstream.UserAgent,
		HTTPTimeout:       s.Upstream.Timeout.String(),
		RequestsPerSecond: s.Upstream.RequestsPerSecond,
		Cookie:            maskCookie(s.Auth.Cookie),
		CookieFile:        s.Auth.CookieFile,
		PageSize:          s.Listing.PageSize,
		ResultCap:         s.Listing.ResultCap,
		ListingTimeout:    s.Listing.Timeout.String(),
		PageDelay:         s.Listing.PageDelay.String(),
		Concurrency:       s.Details.Concurrency,
		ChunkDelay:        s.Details.ChunkDelay.String(),
		OutputDir:         orDefault(s.Export.OutputDir, "(current directory)"),
		IncludeTitle:      s.Export.Format.IncludeTitle,
		IncludeTime:       s.Export.Format.IncludeTime,
		IncludeTags:       s.Export.Format.IncludeTags,
		Timezone:          s.Export.Location().String(),
		DataDir:           orDefault(s.Store.DataDir, "(default)"),
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ss, err := getSettingsService()
	if err != nil {
		return err
	}

	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	v := newSettingsView(settings)

	if done, err := printStructured(cmd, v); done {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Upstream]")
	cmd.Printf("  Base URL: %s\n", v.BaseURL)
	cmd.Printf("  User agent: %s\n", v.UserAgent)
	cmd.Printf("  Request timeout: %s\n", v.HTTPTimeout)
	cmd.Printf("  Requests per second: %g\n", v.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Auth]")
	cmd.Printf("  Cookie: %s\n", v.Cookie)
	if v.CookieFile != "" {
		cmd.Printf("  Cookie file: %s\n", v.CookieFile)
	}
	cmd.Println()

	cmd.Println("[Listing]")
	cmd.Printf("  Page size: %d\n", v.PageSize)
	cmd.Printf("  Result cap: %d\n", v.ResultCap)
	cmd.Printf("  Timeout: %s\n", v.ListingTimeout)
	cmd.Printf("  Page delay: %s\n", v.PageDelay)
	cmd.Println()

	cmd.Println("[Details]")
	cmd.Printf("  Concurrency: %d\n", v.Concurrency)
	cmd.Printf("  Chunk delay: %s\n", v.ChunkDelay)
	cmd.Println()

	cmd.Println("[Export]")
	cmd.Printf("  Output directory: %s\n", v.OutputDir)
	cmd.Printf("  Title / time / tags: %s / %s / %s\n", yesNo(v.IncludeTitle), yesNo(v.IncludeTime), yesNo(v.IncludeTags))
	cmd.Printf("  Timezone: %s\n", v.Timezone)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Data directory: %s\n", v.DataDir)

	if !settings.Auth.IsConfigured() {
		cmd.Println()
		cmd.Println("Not logged in. Run 'yuque-export login'.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ss, err := getSettingsService()
	if err != nil {
		return err
	}

	if err := ss.Set(args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w (see 'yuque-export config keys')", err)
		}
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	ss, err := getSettingsService()
	if err != nil {
		return err
	}

	keys := ss.Keys()
	if done, err := printStructured(cmd, keys); done {
		return err
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

// Helper functions.

func maskCookie(cookie string) string {
	switch {
	case cookie == "":
		return "(not set)"
	case len(cookie) <= 12:
		return "****"
	default:
		return cookie[:6] + "..." + cookie[len(cookie)-4:]
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
