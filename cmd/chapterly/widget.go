package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"chapterly/internal/bootstrap"
	statsdomain "chapterly/internal/modules/stats/domain"
)

func newWidgetCmd(homePath *string) *cobra.Command {
	widget := &cobra.Command{Use: "widget", Short: "The most-read snapshot shown on display surfaces"}

	widget.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the published snapshot",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.WidgetCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.Cleared {
				_, _ = fmt.Fprintln(w, "nothing published")
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s by %s\n%s read\n", out.BookTitle, orUnknown(out.BookAuthor), statsdomain.FormatHours(out.TotalReadingTime))
			if out.IsTimerRunning {
				_, _ = fmt.Fprintf(w, "timer running since %s\n", humanize.Time(out.TimerStartTime))
			}
			if out.StreakDays > 0 {
				_, _ = fmt.Fprintf(w, "streak %d %s\n", out.StreakDays, english.PluralWord(out.StreakDays, "day", ""))
			}
			if out.HasCover {
				_, _ = fmt.Fprintf(w, "cover %s\n", humanize.Bytes(uint64(len(out.CoverImage))))
			}
			_, _ = fmt.Fprintf(w, "published %s\n", humanize.Time(out.PublishedAt))
			return nil
		}),
	})

	widget.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Recompute and republish the snapshot",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := app.SessionCLI.RefreshProjection(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "snapshot refreshed")
			return nil
		}),
	})
	return widget
}

func newSurfaceCmd(homePath *string) *cobra.Command {
	surface := &cobra.Command{Use: "surface", Short: "Display-surface plugins"}

	surface.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List surface manifests",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			surfaces, err := app.SurfaceCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(surfaces) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no surfaces configured")
				return nil
			}
			for _, s := range surfaces {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t capabilities=%v binary=%s\n", s.Name, s.Version, s.Enabled, s.Capabilities, s.Binary)
			}
			return nil
		}),
	})

	surface.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate surface checksums and lifecycle",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			results, err := app.SurfaceCLI.Check(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no surfaces configured")
				return nil
			}
			failing := false
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					failing = true
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if failing {
				return fmt.Errorf("surface check found failing surfaces")
			}
			return nil
		}),
	})
	return surface
}
