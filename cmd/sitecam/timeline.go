package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"sitecam/internal/platform/logger"
	"sitecam/internal/timeline"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the reconciled timeline of a day",
	Long: `Print the five-minute segments of a day with their clips, notes, flags and
bookmarks. --preset is applied first; --zoom and --focus override it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		preset, _ := cmd.Flags().GetString("preset")
		all, _ := cmd.Flags().GetBool("all")

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if date == "" {
			date = time.Now().Format(timeline.DateLayout)
		}

		vp := timeline.NewViewport()
		if preset != "" {
			if err := vp.ApplyPreset(timeline.Preset(preset)); err != nil {
				return fmt.Errorf("%w: %q", err, preset)
			}
		}
		if cmd.Flags().Changed("zoom") {
			zoom, _ := cmd.Flags().GetFloat64("zoom")
			vp.SetZoom(zoom)
		}
		if cmd.Flags().Changed("focus") {
			focus, _ := cmd.Flags().GetInt("focus")
			vp.SetFocusHour(focus)
		}

		ctx := cmd.Context()
		if a.cfg.SeedDemo {
			if err := a.seedDemo(ctx, time.Now()); err != nil {
				a.log.Warn("demo seeding failed", logger.Err(err))
			}
		}

		clips, err := a.clips.ListClips(ctx, date)
		if err != nil {
			return err
		}
		artifacts, err := a.artifacts.ForDay(ctx, date)
		if err != nil {
			return err
		}

		day, err := timeline.BuildDay(date, clips, artifacts, vp)
		if err != nil {
			color.Yellow("warning: %v", err)
		}

		printDay(cmd.OutOrStdout(), day, all)
		return nil
	},
}

func printDay(out io.Writer, day timeline.Day, all bool) {
	fmt.Fprintf(out, "%s  preset=%s zoom=%.1f window=%02.0f:00-%02.0f:00  clips=%d artifacts=%d (matched %d)\n\n",
		color.New(color.Bold).Sprint(day.Date),
		day.Viewport.Preset, day.Viewport.Zoom, day.Viewport.StartHour, day.Viewport.EndHour,
		day.Clips, day.Artifacts, day.Matched)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCLIP\tNOTES\tFLAGS\tBOOKMARKS\tANNOTATIONS")
	for _, s := range day.Segments {
		busy := len(s.Notes)+len(s.Flags)+len(s.Bookmarks)+len(s.Annotations) > 0
		if !all && !s.HasClip && !busy {
			continue
		}

		clip := color.RedString("gap")
		if s.HasClip {
			clip = color.GreenString("yes")
		}
		when := s.DisplayTime
		if !s.IsWorkingHour {
			when = color.HiBlackString(when)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			when, clip,
			count(len(s.Notes)), count(len(s.Flags)), count(len(s.Bookmarks)), count(len(s.Annotations)))
	}
	w.Flush()

	if len(day.Unmatched) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.YellowString("unmatched:"))
		for key, items := range day.Unmatched {
			clipTimes := make([]string, 0, len(items))
			for _, it := range items {
				clipTimes = append(clipTimes, fmt.Sprintf("%s#%d(%q)", it.Kind, it.ID, it.ClipTime))
			}
			fmt.Fprintf(out, "  %s: %s\n", key, strings.Join(clipTimes, ", "))
		}
	}
}

func count(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

func init() {
	timelineCmd.Flags().String("date", "", "day to print (YYYY-MM-DD, default today)")
	timelineCmd.Flags().String("preset", "", "viewport preset: full-day, working-hours, morning, afternoon, detail")
	timelineCmd.Flags().Float64("zoom", 1, "zoom level between 1 and 4")
	timelineCmd.Flags().Int("focus", 12, "hour the window is centered on")
	timelineCmd.Flags().Bool("all", false, "print empty segments too")
	rootCmd.AddCommand(timelineCmd)
}
