// Package cli implements the prep command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/prep/internal/config"
	"github.com/me/prep/internal/logging"
	"github.com/me/prep/internal/progress"
	"github.com/me/prep/internal/session"
	"github.com/me/prep/internal/store"
	"github.com/me/prep/pkg/api"
)

var (
	flagAPIURL    string
	flagDataDir   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger  *slog.Logger
	st      store.Store
	client  *api.Client
	sess    *session.Manager
	tracker *progress.Tracker
)

// NewRootCmd creates the root cobra command for the prep CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prep",
		Short: "prep — exam preparation platform client",
		Long:  "prep manages your exam preparation account from the terminal: subjects, practice exams, progress and tutoring.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if flagAPIURL != "" {
				cfg.APIURL = flagAPIURL
			}
			if flagDataDir != "" {
				cfg.DataDir = flagDataDir
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}

			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

			if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}
			sqlStore, err := store.NewSQLiteStore(cfg.DBPath(), logger)
			if err != nil {
				return err
			}
			if err := sqlStore.Migrate(cmd.Context()); err != nil {
				sqlStore.Close()
				return fmt.Errorf("migrate local store: %w", err)
			}
			st = sqlStore

			apiConfig := api.DefaultConfig().WithBaseURL(cfg.APIURL).WithTimeout(cfg.Timeout)
			client = api.NewClient(apiConfig, session.NewCredentials(st, logger), logger)
			sess = session.NewManager(client, st, logger)
			tracker = progress.NewTracker(client, st, logger)
			tracker.Watch(sess)

			sess.Subscribe(func(state session.State, _ *api.User) {
				if state == session.StateAnonymous {
					logger.Debug("session is anonymous")
				}
			})

			if err := sess.Restore(cmd.Context()); err != nil {
				logger.Warn("restore session", "error", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st != nil {
				st.Close()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (or PREP_API_URL env)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Local state directory (default ~/.prep)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newDashboardCmd(),
		newSubjectsCmd(),
		newExamsCmd(),
		newProgressCmd(),
		newNotificationsCmd(),
		newMessagesCmd(),
		newTasksCmd(),
		newStudentsCmd(),
	)

	return root
}

// requireAuth guards commands that need an authenticated session.
func requireAuth() error {
	if !sess.IsAuthenticated() {
		return fmt.Errorf("not logged in (run `prep login`)")
	}
	return nil
}
