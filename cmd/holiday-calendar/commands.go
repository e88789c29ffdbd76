package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/calendar"
	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/daemon"
	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/holidaymanager"
	"github.com/username/holiday-calendar/internal/server"
	"github.com/username/holiday-calendar/internal/store"
)

// withManager loads the config, builds the manager and runs fn with it
func withManager(fn func(ctx context.Context, cfg *config.Config, m *holidaymanager.Manager) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, cleanup, err := initializeManager(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, cfg, manager)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the daily sync when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(ctx context.Context, cfg *config.Config, m *holidaymanager.Manager) error {
				srv := server.New(cfg, m, logger)

				if cfg.Sync.Enabled {
					d := daemon.NewDaemon(m, cfg.Sync, logger)
					go d.Run(ctx)
				}

				errCh := make(chan error, 1)
				go func() {
					errCh <- srv.Listen()
				}()

				select {
				case err := <-errCh:
					return fmt.Errorf("server stopped: %w", err)
				case <-ctx.Done():
					logger.Info("Shutting down")
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		},
	}
}

func fetchCmd() *cobra.Command {
	var year int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Preview the holidays of a year without saving them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				result, err := m.Preview(ctx, year)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, result)
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tSTATE\tNAME\tDESCRIPTION")
				for _, c := range result.Holidays {
					state := "new"
					if c.ExistsInDB {
						state = "exists"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.StartDate, state, c.Name, c.Description)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintln(out, result.Message())
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "Year to fetch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the preview as JSON")
	return cmd
}

func importCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch a year and save every new holiday as approved",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				result, err := m.Import(ctx, year)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message())
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "Year to import")
	return cmd
}

func saveCmd() *cobra.Command {
	var (
		year   int
		status string
		dates  []string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save selected new holidays of a year with a status",
		Long:  "Fetches the year, keeps the new holidays on the given dates (all new ones when no date is given) and saves them",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := holiday.ParseStatus(status)
			if err != nil {
				return err
			}

			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				preview, err := m.Preview(ctx, year)
				if err != nil {
					return err
				}

				selected := selectCandidates(preview.New(), dates)
				if len(selected) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No new holidays match the selection")
					return nil
				}

				result, err := m.BulkSave(ctx, selected, st)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d skipped, %d errors)\n", result.Message(), result.Skipped, result.Errors)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "Year to fetch")
	cmd.Flags().StringVarP(&status, "status", "s", string(holiday.StatusApproved), "Status: approved, working or custom")
	cmd.Flags().StringSliceVarP(&dates, "date", "d", nil, "Dates to save (YYYY-MM-DD), repeatable")
	return cmd
}

func selectCandidates(candidates []holiday.Candidate, dates []string) []holiday.Candidate {
	if len(dates) == 0 {
		return candidates
	}
	want := make(map[string]bool, len(dates))
	for _, d := range dates {
		want[strings.TrimSpace(d)] = true
	}

	selected := make([]holiday.Candidate, 0, len(dates))
	for _, c := range candidates {
		if want[c.StartDate] {
			selected = append(selected, c)
		}
	}
	return selected
}

func listCmd() *cobra.Command {
	var (
		year   int
		status string
		lang   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := store.Query{Year: year}
			if status != "" {
				st, err := holiday.ParseStatus(status)
				if err != nil {
					return err
				}
				q.Statuses = []holiday.Status{st}
			}

			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				holidays, err := m.List(ctx, q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, holidays)
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTART\tEND\tSTATUS\tNAME")
				for _, h := range holidays {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", h.ID, h.StartDate, h.EndDate, h.Status, h.DisplayName(holiday.Language(lang)))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Only holidays starting in this year")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only holidays with this status")
	cmd.Flags().StringVar(&lang, "lang", string(holiday.LanguageSpanish), "Display language: es or en")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func translateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate",
		Short: "Fill the English name and description of untranslated holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				result, err := m.TranslateMissing(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message())
				for _, e := range result.ErrorsList {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
				return nil
			})
		},
	}
}

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <status>",
		Short: "Change the status of a holiday",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := holiday.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				if err := m.UpdateStatus(ctx, args[0], st); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Holiday updated to: %s\n", st)
				return nil
			})
		},
	}
}

func bulkUpdateCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "bulk-update <id>...",
		Short: "Change the status of several holidays",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := holiday.ParseStatus(status)
			if err != nil {
				return err
			}
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				result, err := m.BulkUpdate(ctx, args, st)
				if err != nil {
					return err
				}
				return reportBatch(cmd, result.Message(), result.Errors)
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Status: approved, working or custom")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete holidays by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				result, err := m.DeleteMany(ctx, args)
				if err != nil {
					return err
				}
				return reportBatch(cmd, result.Message(), result.Errors)
			})
		},
	}
}

func deleteAllCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every stored holiday",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all holidays without --yes")
			}
			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				result, err := m.DeleteAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all holidays")
	return cmd
}

func calendarCmd() *cobra.Command {
	var (
		year   int
		lang   string
		ics    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the yearly calendar or export it as iCalendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			language := holiday.Language(lang)

			return withManager(func(ctx context.Context, _ *config.Config, m *holidaymanager.Manager) error {
				out := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create output file: %w", err)
					}
					defer f.Close()
					out = f
				}

				if ics {
					holidays, err := m.Overlapping(ctx, year)
					if err != nil {
						return err
					}
					return calendar.WriteICS(out, holidays, calendar.ICSOptions{
						Name:     fmt.Sprintf("Holidays %d", year),
						Language: language,
					})
				}

				view, err := m.Calendar(ctx, year, language)
				if err != nil {
					return err
				}
				return calendar.Render(out, view)
			})
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "Year to show")
	cmd.Flags().StringVar(&lang, "lang", string(holiday.LanguageSpanish), "Display language: es or en")
	cmd.Flags().BoolVar(&ics, "ics", false, "Export as iCalendar instead of the terminal grid")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func reportBatch(cmd *cobra.Command, message string, failed []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), message)
	for _, id := range failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "  failed: %s\n", id)
	}
	if len(failed) > 0 {
		logger.Warn("Batch finished with failures", zap.Int("failed", len(failed)))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
