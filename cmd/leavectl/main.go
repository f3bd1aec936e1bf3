/*
main.go - leavectl entry point

COMMANDS:
  leavectl serve    Run the HTTP server with the in-process daily
                    reminder scheduler.
  leavectl remind   Run the reminder job once and exit (cron friendly).

CONFIGURATION:
  Environment variables, see the config package. The serve command shuts
  down gracefully on SIGINT/SIGTERM: stop accepting connections, drain
  in-flight requests (30s), stop the scheduler, close the store.
*/
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/sejongcare/leave-ledger/api"
	"github.com/sejongcare/leave-ledger/config"
	"github.com/sejongcare/leave-ledger/leave"
	"github.com/sejongcare/leave-ledger/notify"
	"github.com/sejongcare/leave-ledger/sheet"
	"github.com/sejongcare/leave-ledger/sheet/memory"
	"github.com/sejongcare/leave-ledger/sheet/sqldb"
)

const (
	recordsTab = "records"
	statusTab  = "status"
)

func main() {
	root := &cobra.Command{
		Use:           "leavectl",
		Short:         "Clinic leave ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), remindCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles everything both commands need.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	roster    *leave.Roster
	processor *leave.Processor
	reminder  *leave.Reminder
	close     func() error
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	wb, closeStore, err := openWorkbook(cfg)
	if err != nil {
		return nil, err
	}

	recTab, err := wb.Tab(recordsTab)
	if err != nil {
		closeStore()
		return nil, err
	}
	stTab, err := wb.Tab(statusTab)
	if err != nil {
		closeStore()
		return nil, err
	}

	var sender notify.Sender
	if cfg.LineToken != "" && cfg.LineGroupID != "" {
		sender = notify.NewLineClient(cfg.LineToken)
	} else {
		logger.Warn("LINE credentials not configured, pushes go to the log")
		sender = notify.NewLogSender(logger)
	}

	roster := leave.ClinicRoster()
	ledger := leave.NewLedger(recTab, logger)
	status := leave.NewStatusBook(stTab)
	processor := leave.NewProcessor(roster, ledger, status, sender, cfg.LineGroupID, logger)
	reminder := leave.NewReminder(ledger, sender, cfg.LineGroupID, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		roster:    roster,
		processor: processor,
		reminder:  reminder,
		close:     func() error { closeStore(); return nil },
	}, nil
}

func openWorkbook(cfg config.Config) (sheet.Workbook, func(), error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(recordsTab, statusTab), func() {}, nil
	case "sqlite":
		db, err := sql.Open("sqlite3", cfg.DSN+"?_foreign_keys=on&_journal_mode=WAL")
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		wb, err := sqldb.New(db, sqldb.DialectSQLite)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return wb, func() { db.Close() }, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		wb, err := sqldb.New(db, sqldb.DialectPostgres)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return wb, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the leave server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			// Heal the balance cache from the ledger before serving.
			if err := a.processor.SyncAll(cmd.Context()); err != nil {
				return fmt.Errorf("initial balance sync: %w", err)
			}

			sessions := api.NewSessionStore(a.cfg.PassphraseHash)
			handler := api.NewHandler(a.processor, a.reminder, a.roster, sessions, a.logger)
			router := api.NewRouter(handler)

			scheduler := api.NewReminderScheduler(a.reminder, a.cfg.ReminderHour, a.logger)
			scheduler.Start()
			defer scheduler.Stop()

			server := &http.Server{
				Addr:         ":" + a.cfg.Port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server starting", "port", a.cfg.Port)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			a.logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the daily reminder job once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return a.reminder.Run(ctx)
		},
	}
}
