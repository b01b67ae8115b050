package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogrid/param-sweep/pkg/client"
	"github.com/picogrid/param-sweep/pkg/config"
	"github.com/picogrid/param-sweep/pkg/gateway"
	"github.com/picogrid/param-sweep/pkg/history"
	"github.com/picogrid/param-sweep/pkg/logger"
)

var (
	cfgFile   string
	envName   string
	envURL    string
	logLevel  string
	noColor   bool
	timeout   time.Duration
	checkConn bool
	noHistory bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Parameter sweep configuration CLI",
	Long: `sweep authors, saves, loads, watches and plots parameter sweep
configurations: named sets of typed parameters (float, int, enum), each
carrying an ordered list of values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.param-sweep/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name to use")
	rootCmd.PersistentFlags().StringVar(&envURL, "url", "", "backend URL (overrides environment)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolVar(&checkConn, "check", false, "check the backend connection before network commands")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record saved or loaded configs locally")

	_ = viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	// Add commands
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(valuesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(envCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		viper.AddConfigPath("$HOME/.param-sweep")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SWEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		logger.Debugf("Using config file %s", viper.ConfigFileUsed())
	}

	// Configure logger based on flags, env and config file
	logger.SetOutput(rootCmd.ErrOrStderr())
	logger.SetLevel(logger.ParseLevel(viper.GetString("log_level")))
	logger.SetNoColor(viper.GetBool("no_color"))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Warn("Received interrupt signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// resolveEndpoint applies the URL precedence: --url, SWEEP_URL, --env,
// BACKEND_PORT, default.
func resolveEndpoint() (*config.Endpoint, error) {
	in := config.Inputs{
		FlagURL:     envURL,
		EnvURL:      viper.GetString("url"),
		EnvName:     viper.GetString("env"),
		BackendPort: backendPort(),
	}
	if in.EnvName != "" {
		envs, err := config.LoadEnvironments()
		if err != nil {
			return nil, fmt.Errorf("failed to load environments: %w", err)
		}
		in.Environments = envs
	}

	ep, err := config.Resolve(in)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Using backend %s (from %s)", ep.HTTP, ep.Source)
	return ep, nil
}

func backendPort() string {
	if port := os.Getenv("BACKEND_PORT"); port != "" {
		return port
	}
	return os.Getenv("VITE_BACKEND_PORT")
}

// newClient builds the REST client for the resolved endpoint, optionally
// checking the connection first.
func newClient(ctx context.Context) (*client.Client, error) {
	ep, err := resolveEndpoint()
	if err != nil {
		return nil, err
	}

	apiKey := viper.GetString("api_key")
	if ep.APIKeyEnv != "" {
		apiKey = client.GetAPIKey(ep.APIKeyEnv)
	}

	c, err := client.NewSweepClient(ep.HTTP, apiKey, viper.GetDuration("timeout"))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if checkConn {
		var g *client.Greeting
		err := logger.WithSpinner("Testing connection to backend...", func() error {
			var err error
			g, err = c.Ping(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to backend: %w", err)
		}
		logger.Successf("Connected to %s: %s", c.BaseURL(), g.Message)
	}
	return c, nil
}

// historyPath returns the history database location. SWEEP_HISTORY or
// history in the config file overrides the default.
func historyPath() (string, error) {
	if path := viper.GetString("history"); path != "" {
		return path, nil
	}
	return history.DefaultPath()
}

// openHistory opens the local history store, or returns nil when
// --no-history is set.
func openHistory() (*history.Store, error) {
	if noHistory {
		return nil, nil
	}
	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

// newGateway wires the client, logger notifications and local history.
// The returned close function releases the history store.
func newGateway(ctx context.Context) (*gateway.Gateway, func(), error) {
	c, err := newClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	store, err := openHistory()
	if err != nil {
		logger.Warnf("Local history unavailable: %v", err)
		store = nil
	}

	closeFn := func() {}
	var recorder gateway.Recorder
	if store != nil {
		recorder = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				logger.Errorf("failed to close history: %v", err)
			}
		}
	}
	return gateway.New(c, gateway.LogNotifier{}, recorder), closeFn, nil
}
