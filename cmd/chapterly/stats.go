package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chapterly/internal/bootstrap"
	statsdomain "chapterly/internal/modules/stats/domain"
	"chapterly/internal/platform/calendar"
)

func newStatsCmd(homePath *string) *cobra.Command {
	var timeframe, date string
	var bars bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Reading statistics for a day, week or month",
		Example: `  chapterly stats
  chapterly stats --timeframe month --date "last month"
  chapterly stats --timeframe day --date 2024-03-20`,
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			ref, err := calendar.ParseReference(date, time.Now())
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Statistics(cmd.Context(), timeframe, ref)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s %s .. %s\n", out.Timeframe, out.From.Format("Mon 02 Jan 2006"), out.To.Add(-time.Nanosecond).Format("Mon 02 Jan 2006"))
			_, _ = fmt.Fprintf(w, "total    %s\n", statsdomain.FormatHours(out.Total))
			_, _ = fmt.Fprintf(w, "average  %s per reading day\n", statsdomain.FormatHours(out.Average))
			_, _ = fmt.Fprintf(w, "longest  %s\n", statsdomain.FormatHours(out.Longest))
			_, _ = fmt.Fprintf(w, "sessions %d\n", out.SessionCount)
			_, _ = fmt.Fprintf(w, "streak   %s\n", statsdomain.FormatStreak(out.Streak.Current, out.Streak.Longest))
			if len(out.Series) > 1 {
				_, _ = fmt.Fprintf(w, "[%s]\n", statsdomain.Sparkline(out.Series))
			}
			if bars {
				for _, line := range statsdomain.Bars(out.Labels, out.Series, 30) {
					_, _ = fmt.Fprintln(w, line)
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&timeframe, "timeframe", "week", "day|week|month")
	cmd.Flags().StringVar(&date, "date", "", `reference date: 2024-03-20, "yesterday", "last friday" (default today)`)
	cmd.Flags().BoolVar(&bars, "bars", false, "print one bar per day")
	return cmd
}
