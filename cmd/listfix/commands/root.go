// Package commands implements the CLI commands for listfix.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported is returned by commands that already printed why they failed. It only sets the
// exit status.
var errReported = errors.New("failed")

// config holds the settings of a command run, merged from flags, LISTFIX_* environment variables
// and the config file. Flags of other commands keep their zero values.
type config struct {
	Config  string `mapstructure:"config"`
	Debug   bool   `mapstructure:"debug"`
	Quiet   bool   `mapstructure:"quiet"`
	LogJSON bool   `mapstructure:"log-json"`

	Strict bool   `mapstructure:"strict"`
	Output string `mapstructure:"output"`
	Fixes  bool   `mapstructure:"fixes"`

	Fixtures string `mapstructure:"fixtures"`
	Where    string `mapstructure:"where"`
	Format   string `mapstructure:"format" validate:"omitempty,oneof=text json junit"`
	Verbose  bool   `mapstructure:"verbose"`

	Addr            string        `mapstructure:"addr" validate:"omitempty,hostname_port"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" validate:"gte=0"`
}

// app is the state shared by the commands of one root command.
type app struct {
	v      *viper.Viper
	cfg    config
	logger *slog.Logger
}

// NewRootCmd builds the listfix command tree with its own configuration registry.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "listfix",
		Short: "Repair malformed ul, ol and li markup in HTML fragments",
		Long: `Listfix repairs the list structure of HTML fragments: orphan items get a
list, missing tags are added, stray and mismatched closing tags are resolved.
Everything that is not a list tag is kept byte for byte.

Examples:
  # Repair a fragment from stdin
  echo '<li>Something</li>' | listfix repair

  # Repair a file and show what was changed
  listfix repair --fixes -o fixed.html pasted.html

  # Run the orphan fixtures of the built-in corpus
  listfix conformance --where '"orphan" in tags' -v

  # Serve the repair endpoints
  listfix serve --addr :8080`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .listfix.yaml in the working or home directory)")
	pf.Bool("debug", false, "enable debug logging")
	pf.BoolP("quiet", "q", false, "only log errors")
	pf.Bool("log-json", false, "log as JSON")

	root.AddCommand(a.repairCmd(), a.checkCmd(), a.conformanceCmd(), a.serveCmd())
	return root
}

// Execute runs the root command until it completes or the process is interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// init loads the configuration of the command about to run and sets up logging.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".listfix")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("LISTFIX")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(&a.cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.cfg)
	if f := a.v.ConfigFileUsed(); f != "" {
		a.logger.Debug("Load config", "file", f)
	}
	return nil
}

func newLogger(w io.Writer, cfg config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	if cfg.Quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// readInput returns the contents of the file named by args, or of stdin when there is none or it
// is "-". The second result names the input in messages.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "<stdin>", nil
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(b), args[0], nil
}
