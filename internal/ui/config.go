package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jborjas31/my-scheduler/internal/config"
	"github.com/jborjas31/my-scheduler/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  scheduler config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Config file (default: ~/.config/my-scheduler/config.toml)")
	return cmd
}

func runConfigInteractive(path string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(path)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", path)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Storage.Backend = promptValue(reader, out, "Storage backend (sqlite, firestore)", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendFirestore {
		cfg.Firestore.ProjectID = promptValue(reader, out, "Firestore project ID", cfg.Firestore.ProjectID)
		cfg.Firestore.CredentialsFile = promptValue(reader, out, "Credentials file (empty for default)", cfg.Firestore.CredentialsFile)
		cfg.Firestore.Collection = promptValue(reader, out, "Firestore collection", cfg.Firestore.Collection)
	} else {
		cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	}
	cfg.Schedule.SlotInterval = promptInt(reader, out, "Picker interval (minutes)", cfg.Schedule.SlotInterval)
	cfg.Schedule.DefaultLength = promptInt(reader, out, "Default task length (minutes)", cfg.Schedule.DefaultLength)
	cfg.Dashboard.UpcomingLimit = promptInt(reader, out, "Upcoming tasks on the dashboard (0 for all)", cfg.Dashboard.UpcomingLimit)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[storage]")
	fmt.Fprintf(w, "  backend          = %s\n", cfg.Storage.Backend)
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	if cfg.Storage.Backend == config.BackendFirestore {
		fmt.Fprintln(w, "\n[firestore]")
		fmt.Fprintf(w, "  project_id       = %s\n", cfg.Firestore.ProjectID)
		fmt.Fprintf(w, "  credentials_file = %s\n", cfg.Firestore.CredentialsFile)
		fmt.Fprintf(w, "  collection       = %s\n", cfg.Firestore.Collection)
	}
	fmt.Fprintln(w, "\n[cache]")
	fmt.Fprintf(w, "  enabled          = %t\n", cfg.Cache.Enabled)
	fmt.Fprintf(w, "  ttl              = %s\n", cfg.Cache.TTL)
	fmt.Fprintln(w, "\n[schedule]")
	fmt.Fprintf(w, "  slot_interval    = %d\n", cfg.Schedule.SlotInterval)
	fmt.Fprintf(w, "  default_length   = %d\n", cfg.Schedule.DefaultLength)
	fmt.Fprintln(w, "\n[dashboard]")
	fmt.Fprintf(w, "  upcoming_limit   = %d\n", cfg.Dashboard.UpcomingLimit)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr             = %s\n", cfg.Server.Addr)
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  %q is not a number.\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		if value == strings.ToLower(current) {
			// No usable answer and no usable default.
			return theme.DefaultName
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
