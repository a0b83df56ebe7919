package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/readershell/pkg/printers"
	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/store"
	"tableflip.dev/readershell/pkg/timeutil"
)

func addSet(topLevel *cobra.Command) {
	var (
		wide     string
		toolbar  string
		lastPage string
		zoom     float64
		interval string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Apply settings changes from the command line.",
		Example: `
readershell set --wide on --zoom 1.2
readershell set --flip-interval 30s
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p settings.Patch

			if v, ok, err := parseOnOff("wide", wide); err != nil {
				return err
			} else if ok {
				p.ReaderWide = settings.Bool(v)
			}
			if v, ok, err := parseOnOff("toolbar-hidden", toolbar); err != nil {
				return err
			} else if ok {
				p.HideToolbar = settings.Bool(v)
			}
			if v, ok, err := parseOnOff("last-page", lastPage); err != nil {
				return err
			} else if ok {
				p.LastPage = settings.Bool(v)
			}
			if cmd.Flags().Changed("zoom") {
				p.Zoom = settings.Float(zoom)
			}
			if interval != "" {
				d, _, err := timeutil.ParseInterval(interval)
				if err != nil {
					return err
				}
				p.AutoFlip = &settings.AutoFlipPatch{Interval: settings.Int(timeutil.Seconds(d))}
			}

			st, err := store.Open(nil, nil)
			if err != nil {
				return err
			}
			snap, rejected := st.Set(p)

			pp := printers.PrettyPrint{}
			pp.Rejections(rejected)
			pp.Title("settings")
			pp.Settings(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&wide, "wide", "", "Wide reading layout: on or off.")
	cmd.Flags().StringVar(&toolbar, "toolbar-hidden", "", "Hide the toolbar: on or off.")
	cmd.Flags().StringVar(&lastPage, "last-page", "", "Restore the last reader page on startup: on or off.")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "Content zoom factor.")
	cmd.Flags().StringVar(&interval, "flip-interval", "", "Auto page-flip interval (for example \"15s\").")

	topLevel.AddCommand(cmd)
}
