package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chapterly/internal/bootstrap"
	sessiondto "chapterly/internal/modules/session/dto"
	statsdomain "chapterly/internal/modules/stats/domain"
	apperrors "chapterly/internal/platform/errors"
)

func newTimerCmd(homePath *string) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Time a reading session"}

	timer.AddCommand(&cobra.Command{
		Use:   "start <book-id>",
		Short: "Start or resume timing a book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Start(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timing %s (elapsed %s)\n", titleOrID(out), formatElapsed(out.Elapsed))
			return nil
		}),
	})

	timer.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Pause(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused %s at %s\n", titleOrID(out), formatElapsed(out.Elapsed))
			return nil
		}),
	})

	timer.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the timer and record the session",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Stop(cmd.Context())
			if err != nil && !(errors.Is(err, apperrors.ErrNotFound) && out.AccumulatorSkipped) {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s for %s\n", statsdomain.FormatHours(out.Session.Duration), out.Session.BookID)
			if out.AccumulatorSkipped {
				return fmt.Errorf("session kept but the book is gone: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total reading time %s\n", statsdomain.FormatHours(out.BookTotal))
			return nil
		}),
	})

	timer.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the timer",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			if out.Status == "idle" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active timer")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s elapsed=%s", out.Status, titleOrID(out), formatElapsed(out.Elapsed))
			if out.Status == "running" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " since %s", humanize.Time(out.StartTime))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}),
	})

	timer.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Follow the running timer until interrupted",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.Status(cmd.Context())
			if err != nil {
				return err
			}
			if out.Status != "running" {
				return apperrors.ErrNoActiveTimer
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s\n", titleOrID(out))
			for elapsed := range app.SessionCLI.Watch(cmd.Context()) {
				_, _ = fmt.Fprintf(w, "\r%s ", formatElapsed(elapsed))
			}
			_, _ = fmt.Fprintln(w)
			return nil
		}),
	})

	return timer
}

func newSessionCmd(homePath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Recorded reading sessions"}

	session.AddCommand(&cobra.Command{
		Use:   "log <book-id>",
		Short: "List a book's sessions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			sessions, err := app.SessionCLI.Log(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			total := 0.0
			for _, s := range sessions {
				total += s.Duration
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", s.Date.Local().Format("2006-01-02 15:04"), statsdomain.FormatHours(s.Duration), humanize.Time(s.Date))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d sessions, %s\n", len(sessions), statsdomain.FormatHours(total))
			return nil
		}),
	})

	var dir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write one markdown note per book with its session log",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			target := dir
			if strings.TrimSpace(target) == "" {
				target = app.Config.ExportPath
			}
			out, err := app.SessionCLI.Export(cmd.Context(), target)
			if err != nil {
				return err
			}
			for _, p := range out.Paths {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes\n", len(out.Paths))
			return nil
		}),
	}
	export.Flags().StringVar(&dir, "dir", "", "output directory (default <home>/reading-log)")
	session.AddCommand(export)
	return session
}

func titleOrID(out sessiondto.TimerOutput) string {
	if out.BookTitle != "" {
		return out.BookTitle
	}
	return out.BookID
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
