// FILE: lixenwraith/preferences/cmd/prefs/main.go
// Command prefs inspects and edits the preference files of the desktop application.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/preferences"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const appName = "desktop-player"

var (
	opts     = preferences.DefaultOptions(appName)
	logLevel string
	prefs    preferences.GlobalPreferences
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and edit desktop preferences",
	Long: `prefs reads preferences.toml and bookmarks.toml from the configuration
directory, shows the values the application would use, and edits them
without losing keys it does not know about.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

		prefs, err = preferences.NewBuilder(appName).
			WithOptions(opts).
			WithLogger(logger).
			WithOwnerChecks(level <= zerolog.DebugLevel).
			Build()
		return err
	},
}

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := encode(prefs.Effective(), showFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist a preference, e.g. 'set storage.backend memory'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting, err := preferences.ParseSetting(args[0], args[1])
		if err != nil {
			return err
		}
		return prefs.WritePreferences(func(w *preferences.PreferencesWriter) {
			setting(w)
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a value as stored in preferences.toml, e.g. 'get log.filename_pattern'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, ok := prefs.LookupPreference(args[0])
		if !ok {
			return fmt.Errorf("%s is not set in %s", args[0], preferences.PreferencesFile)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List or edit bookmarks",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		prefs.Bookmarks(func(bookmarks preferences.Bookmarks) {
			for i, b := range bookmarks {
				target := "(invalid)"
				if !b.Invalid() {
					target = b.URL.String()
				}
				fmt.Fprintf(out, "%d\t%s\t%s\n", i, b.Name, target)
			}
		})
		return nil
	},
}

var bookmarksAddCmd = &cobra.Command{
	Use:   "add URL [NAME]",
	Short: "Append a bookmark",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := preferences.ParseBookmarkURL(args[0])
		if err != nil {
			return fmt.Errorf("invalid bookmark: %w", err)
		}
		name := preferences.ReadableName(u)
		if len(args) == 2 {
			name = args[1]
		}
		return prefs.WriteBookmarks(func(w *preferences.BookmarksWriter) {
			w.Add(preferences.Bookmark{URL: u, Name: name})
		})
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove INDEX",
	Short: "Remove the bookmark at INDEX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}

		var rangeErr error
		err = prefs.WriteBookmarks(func(w *preferences.BookmarksWriter) {
			if index < 0 || index >= w.Len() {
				rangeErr = fmt.Errorf("index %d out of range, %d bookmarks", index, w.Len())
				return
			}
			w.Remove(index)
		})
		if rangeErr != nil {
			return rangeErr
		}
		return err
	},
}

func init() {
	opts.BindFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	showCmd.Flags().StringVarP(&showFormat, "format", "f", "toml", "Output format (toml|yaml|json)")

	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksAddCmd, bookmarksRemoveCmd)
	rootCmd.AddCommand(showCmd, getCmd, setCmd, bookmarksCmd)
}

func encode(v any, format string) ([]byte, error) {
	switch format {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	case "yaml":
		return yaml.Marshal(v)
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
