package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	baseURL string
	client  *Client
)

// ErrLoginFailed is returned when the server never grants the admin role
var ErrLoginFailed = errors.New("admin login failed, check the credentials")

// ErrImportRejected is returned when the server refuses an uploaded settings file
var ErrImportRejected = errors.New("server rejected the settings file")

const importErrorNotice = "admin.notifImportError"

// StateResponse mirrors the visitor state reported by /api/state
type StateResponse struct {
	Version uint64 `json:"version"`
	Page    string `json:"page"`
	View    string `json:"view"`
	Role    string `json:"role"`
	Notice  string `json:"notice,omitempty"`
}

// Client drives the admin dashboard of an UploadPro server. The visitor cookie
// lives in the cookie jar, so every call after Login acts as the administrator.
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration
	LoginTimeout time.Duration
}

func NewClient(baseURL string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 2 * time.Minute,
			Jar:     jar,
		},
		PollInterval: 250 * time.Millisecond,
		LoginTimeout: 10 * time.Second,
	}
}

// State fetches the visitor state
func (c *Client) State() (*StateResponse, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "api/state")
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("state check failed with status %d: %s", resp.StatusCode, string(body))
	}

	var state StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &state, nil
}

// Login submits the admin form and waits until the server grants the admin role
func (c *Client) Login(login, password string) error {
	form := url.Values{
		"tab":      {"admin"},
		"login":    {login},
		"password": {password},
	}
	resp, err := c.HTTPClient.PostForm(c.BaseURL+"login", form)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(body))
	}

	deadline := time.Now().Add(c.LoginTimeout)
	for {
		state, err := c.State()
		if err != nil {
			return err
		}
		if state.Role == "admin" {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLoginFailed
		}
		time.Sleep(c.PollInterval)
	}
}

// ExportSettings downloads the settings blob
func (c *Client) ExportSettings() ([]byte, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "admin/export")
	if err != nil {
		return nil, fmt.Errorf("failed to export settings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("export failed with status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

// ImportSettings uploads a settings file exported earlier
func (c *Client) ImportSettings(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not a JSON file", filePath)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("settings", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"admin/import", &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("import failed with status %d: %s", resp.StatusCode, string(body))
	}

	state, err := c.State()
	if err != nil {
		return err
	}
	if state.Notice == importErrorNotice {
		return ErrImportRejected
	}
	return nil
}

// adminClient returns the shared client logged in with the configured credentials
func adminClient() (*Client, error) {
	if err := client.Login(viper.GetString("login"), viper.GetString("password")); err != nil {
		return nil, err
	}
	return client, nil
}

var rootCmd = &cobra.Command{
	Use:   "uploadpro",
	Short: "UploadPro admin client",
	Long: `UploadPro admin client backs up and restores the site configuration of an
UploadPro server through its admin dashboard.

Quick start:
  uploadpro config set server https://files.example.com/
  uploadpro settings export -o backup.json
  uploadpro settings import backup.json`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		baseURL = viper.GetString("server")
		if baseURL == "" {
			baseURL = "http://localhost:3002/"
		}
		client = NewClient(baseURL)
	},
}

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"st"},
	Short:   "Back up and restore site settings",
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Download the site settings",
	Long: `Log in as administrator and download the site settings as JSON.

Without --output the settings are written to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		c, err := adminClient()
		if err != nil {
			return err
		}
		data, err := c.ExportSettings()
		if err != nil {
			return err
		}

		if output == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("error saving settings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s of settings to %s\n", humanize.Bytes(uint64(len(data))), output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Aliases: []string{"i"},
	Short:   "Restore site settings from a file",
	Long: `Log in as administrator and replace the site settings with an exported file.
Missing fields are filled with defaults by the server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := adminClient()
		if err != nil {
			return err
		}
		if err := c.ImportSettings(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings imported from %s\n", args[0])
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"c", "cfg"},
	Short:   "Manage client configuration",
	Long: `Manage client configuration settings like the server URL and admin credentials.

Configuration is stored in ~/.uploadpro/config.yaml`,
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Aliases: []string{"s"},
	Short:   "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  • server: Server URL (e.g., https://files.example.com/)
  • login: Admin login
  • password: Admin password

Example: uploadpro config set server https://files.example.com/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		viper.Set(key, value)
		if err := viper.WriteConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("error saving configuration: %w", err)
			}
			if err := viper.SafeWriteConfig(); err != nil {
				return fmt.Errorf("error saving configuration: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:     "get <key>",
	Aliases: []string{"g"},
	Short:   "Get a configuration value",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := viper.GetString(key)

		if value == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not set\n", key)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		}
		return nil
	},
}

func init() {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".uploadpro")
	os.MkdirAll(configDir, 0o755)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.ReadInConfig() // Ignore errors if config file doesn't exist

	viper.SetDefault("login", "admin")
	viper.SetDefault("password", "admin123")

	rootCmd.PersistentFlags().StringP("server", "s", "", "Server URL (default: http://localhost:3002/)")
	rootCmd.PersistentFlags().StringP("login", "l", "", "Admin login")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Admin password")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("login", rootCmd.PersistentFlags().Lookup("login"))
	viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))

	exportCmd.Flags().StringP("output", "o", "", "Write the settings to this file")

	settingsCmd.AddCommand(exportCmd)
	settingsCmd.AddCommand(importCmd)

	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
