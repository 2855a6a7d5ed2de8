package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/healthmon/internal/credential"
	"github.com/nhle/healthmon/internal/logging"
	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/source/smartlead"
	"github.com/nhle/healthmon/internal/store"
)

// runtime holds what every command needs once flags are parsed.
type runtime struct {
	configPath string
	verbose    bool

	cfg    *model.AppConfig
	logger *zap.Logger
	creds  *credential.Store
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "healthmon",
		Short: "Smartlead email account health monitor",
		Long: `healthmon scans every email account in a Smartlead workspace and flags
accounts with SMTP, IMAP, warmup or mailbox failures.

Run without arguments to start the interactive dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(rt)
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "config file (default ~/.config/healthmon/config.yaml)")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newScanCmd(rt),
		newInspectCmd(rt),
		newSetKeyCmd(rt),
		newHistoryCmd(rt),
	)
	return root
}

// setup loads .env, the config file and the logger.
func (rt *runtime) setup() error {
	if err := model.LoadDotEnv(".env"); err != nil {
		return err
	}

	if rt.configPath == "" {
		rt.configPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(rt.configPath)
	if err != nil {
		return err
	}
	rt.cfg = cfg

	logger, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Verbose: rt.verbose,
	})
	if err != nil {
		return err
	}
	rt.logger = logger
	return nil
}

// credentials opens the keyring on first use, so commands that get the
// key from the environment never touch it.
func (rt *runtime) credentials() (*credential.Store, error) {
	if rt.creds != nil {
		return rt.creds, nil
	}
	creds, err := credential.Open(model.ConfigDir())
	if err != nil {
		return nil, err
	}
	rt.creds = creds
	return creds, nil
}

// apiKey resolves the key from the environment or the keyring.
func (rt *runtime) apiKey() (string, error) {
	if v := os.Getenv(credential.EnvAPIKey); v != "" {
		return v, nil
	}
	creds, err := rt.credentials()
	if err != nil {
		rt.logger.Warn("keyring unavailable", zap.Error(err))
		return "", nil
	}
	return credential.ResolveAPIKey(creds)
}

// openHistory opens the scan history store, or returns nil when history
// is disabled.
func (rt *runtime) openHistory() (*store.SQLiteStore, error) {
	if !rt.cfg.History.Enabled {
		return nil, nil
	}
	s, err := store.NewSQLiteStore(rt.cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening scan history: %w", err)
	}
	return s, nil
}

func (rt *runtime) newClient(apiKey string) *smartlead.Client {
	return smartlead.NewClient(smartlead.Options{
		BaseURL:           rt.cfg.API.BaseURL,
		APIKey:            apiKey,
		PageSize:          rt.cfg.API.PageSize,
		Timeout:           rt.cfg.API.Timeout,
		RequestsPerSecond: rt.cfg.API.RequestsPerSecond,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
