package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"sitecam/internal/timecode"
	"sitecam/internal/timeline"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Simulate playback of a day from a clip",
	Long: `Select the clip starting at --from and let it play: each clip that ends hands
over to the next one when it follows directly, and playback stops at the first gap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		from, _ := cmd.Flags().GetString("from")
		limit, _ := cmd.Flags().GetInt("max")

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if date == "" {
			date = time.Now().Format(timeline.DateLayout)
		}

		ctx := cmd.Context()
		clips, err := a.clips.ListClips(ctx, date)
		if err != nil {
			return err
		}

		start, err := startClip(clips, from)
		if err != nil {
			return err
		}

		p := timeline.NewPlayer(a.log, a.clips.Resolver(), printPreloader{out: cmd.OutOrStdout()})
		p.SetClips(ctx, date, clips)
		p.SelectClip(ctx, start)
		p.Play()

		simulate(ctx, cmd.OutOrStdout(), p, limit)
		return nil
	},
}

func startClip(clips []timeline.Clip, from string) (timeline.Clip, error) {
	if len(clips) == 0 {
		return timeline.Clip{}, fmt.Errorf("no footage on this day")
	}
	if from == "" {
		return clips[0], nil
	}
	m, err := timecode.ParseKey(from)
	if err != nil {
		return timeline.Clip{}, err
	}
	for _, c := range clips {
		if c.StartTime == m.Key() {
			return c, nil
		}
	}
	return timeline.Clip{}, fmt.Errorf("no clip starts at %s", m.Key())
}

// simulate plays clips back to back until playback stops or limit clips played.
func simulate(ctx context.Context, out io.Writer, p *timeline.Player, limit int) {
	for played := 0; limit <= 0 || played < limit; played++ {
		url, _ := p.ResolveCurrent(ctx)
		st := p.State()
		fmt.Fprintf(out, "%s %s-%s  %s\n",
			color.GreenString("▶"), st.Current.StartTime, st.Current.EndTime, url)

		p.OnTimeUpdate(float64(timecode.SlotMinutes * 60))
		p.OnClipEnded(ctx)

		if !p.State().IsPlaying {
			fmt.Fprintf(out, "%s stopped after %s: next clip does not follow\n",
				color.YellowString("■"), st.Current.EndTime)
			return
		}
	}
	fmt.Fprintf(out, "%s reached --max\n", color.YellowString("■"))
}

type printPreloader struct {
	out io.Writer
}

func (pp printPreloader) Preload(_ context.Context, clip timeline.Clip, url string) {
	fmt.Fprintf(pp.out, "  preloaded %s\n", clip.StartTime)
}

func init() {
	playCmd.Flags().String("date", "", "day to play (YYYY-MM-DD, default today)")
	playCmd.Flags().String("from", "", "start time of the first clip (HH:MM, default first clip)")
	playCmd.Flags().Int("max", 0, "stop after this many clips (0 plays until a gap)")
	rootCmd.AddCommand(playCmd)
}
