package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/config"
	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/ui"
)

// configKey binds a dotted config.toml key to its field.
type configKey struct {
	get   func(c *config.Config) string
	set   func(c *config.Config, v string) error
	unset func(c *config.Config)
}

func stringKey(field func(c *config.Config) *string, validate func(string) error) configKey {
	return configKey{
		get: func(c *config.Config) string { return strings.TrimSpace(*field(c)) },
		set: func(c *config.Config, v string) error {
			if validate != nil {
				if err := validate(v); err != nil {
					return err
				}
			}
			*field(c) = v
			return nil
		},
		unset: func(c *config.Config) { *field(c) = "" },
	}
}

var configKeys = map[string]configKey{
	"creator":    stringKey(func(c *config.Config) *string { return &c.Creator }, nil),
	"originator": stringKey(func(c *config.Config) *string { return &c.Originator }, nil),
	"format":     stringKey(func(c *config.Config) *string { return &c.Format }, nil),
	"medium": stringKey(func(c *config.Config) *string { return &c.Medium }, func(v string) error {
		_, err := epc.ParseMedium(v)
		return err
	}),
	"overwrite": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Overwrite) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("overwrite must be true or false")
			}
			c.Overwrite = b
			return nil
		},
		unset: func(c *config.Config) { c.Overwrite = false },
	},
	"index.path": stringKey(func(c *config.Config) *string { return &c.Index.Path }, nil),
	"ui.accent": stringKey(func(c *config.Config) *string { return &c.UI.Accent }, func(v string) error {
		if !ui.ValidAccent(v) {
			return fmt.Errorf("ui.accent must be an ANSI code 0-255 or a #RRGGBB color")
		}
		return nil
	}),
	"ui.code_theme": stringKey(func(c *config.Config) *string { return &c.UI.CodeTheme }, func(v string) error {
		if !ui.KnownCodeTheme(v) {
			return fmt.Errorf("unknown code theme %q", v)
		}
		return nil
	}),
}

func configKeyNames() []string {
	names := make([]string, 0, len(configKeys))
	for name := range configKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupConfigKey(name string) (configKey, error) {
	k, ok := configKeys[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return configKey{}, fmt.Errorf("unknown config key %q", name)
	}
	return k, nil
}

// configTarget returns the config file the config subcommands act on.
func configTarget() string {
	if p := strings.TrimSpace(configPath); p != "" {
		return p
	}
	return config.DefaultPath()
}

// loadConfigAllowMissing decodes the target config without validating it;
// a missing file yields an empty config.
func loadConfigAllowMissing() (*config.Config, string, bool, error) {
	path := configTarget()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &config.Config{}, path, false, nil
	}
	c, err := config.Decode(path)
	if err != nil {
		return nil, path, true, err
	}
	return c, path, true, nil
}

func configValues(c *config.Config) map[string]string {
	values := make(map[string]string, len(configKeys))
	for name, k := range configKeys {
		values[name] = k.get(c)
	}
	return values
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage config.toml settings",
	Long: `Create, show and edit the resqpack config file. Keys use dotted names:
` + "  creator, originator, format, medium, overwrite, index.path, ui.accent, ui.code_theme",
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c, path, exists, err := loadConfigAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	values := configValues(c)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": path,
			"exists":      exists,
			"values":      values,
		}, nil)
		return nil
	}

	if !exists {
		fmt.Printf("Config file does not exist: %s\n", ui.FilePath(path))
		fmt.Println(ui.Hint("Run 'resqpack config init' to create it."))
		return nil
	}
	fmt.Println(ui.Header("config"), ui.FilePath(path))
	tbl := ui.NewTable(2)
	for _, name := range configKeyNames() {
		v := values[name]
		if v == "" || (name == "overwrite" && !c.Overwrite) {
			v = ui.Hint("(default)")
		}
		tbl.AddRow(name, v)
	}
	fmt.Print(tbl.String())
	return nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configTarget()
		_, statErr := os.Stat(path)
		existed := statErr == nil
		if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			return handleError(ErrConfigInvalid, statErr, "")
		}

		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": created,
				"created":     !existed,
			}, nil)
			return nil
		}
		if existed {
			fmt.Println(ui.Hint("Config already exists: " + created))
		} else {
			fmt.Println(ui.Successf("Created config %s", ui.FilePath(created)))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Set config.toml keys",
	Example: `  resqpack config set medium=directory
  resqpack config set creator="Field team" ui.accent=39`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, path, _, err := loadConfigAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		changed := make([]string, 0, len(args))
		for _, arg := range args {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return handleError(ErrInvalidInput, fmt.Errorf("expected key=value, got %q", arg), "")
			}
			value = strings.TrimSpace(value)
			if value == "" {
				return handleError(ErrInvalidInput, fmt.Errorf("%s cannot be empty", name),
					fmt.Sprintf("Use 'resqpack config unset %s' to clear it", name))
			}
			k, err := lookupConfigKey(name)
			if err != nil {
				return handleError(ErrInvalidInput, err, "Known keys: "+strings.Join(configKeyNames(), ", "))
			}
			if err := k.set(c, value); err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			changed = append(changed, strings.ToLower(strings.TrimSpace(name)))
		}
		return saveConfigChanges(path, c, changed)
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>...",
	Short: "Clear config.toml keys",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, path, _, err := loadConfigAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		changed := make([]string, 0, len(args))
		for _, name := range args {
			k, err := lookupConfigKey(name)
			if err != nil {
				return handleError(ErrInvalidInput, err, "Known keys: "+strings.Join(configKeyNames(), ", "))
			}
			k.unset(c)
			changed = append(changed, strings.ToLower(strings.TrimSpace(name)))
		}
		return saveConfigChanges(path, c, changed)
	},
}

func saveConfigChanges(path string, c *config.Config, changed []string) error {
	if err := c.Validate(); err != nil {
		return handleError(ErrConfigInvalid, err, "Fix or unset the invalid key")
	}
	if err := config.SaveTo(path, c); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": path,
			"changed":     changed,
			"values":      configValues(c),
		}, nil)
		return nil
	}
	fmt.Println(ui.Successf("Updated %s", ui.FilePath(path)))
	fmt.Println(ui.Hint("changed: " + strings.Join(changed, ", ")))
	return nil
}

// isConfigCommand reports whether cmd manages the config file itself and
// so must run even when that file does not parse.
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
