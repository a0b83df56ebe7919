package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/bridge"
	"tableflip.dev/readershell/pkg/commands/options"
	"tableflip.dev/readershell/pkg/flip"
	"tableflip.dev/readershell/pkg/nav"
	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/shell"
	"tableflip.dev/readershell/pkg/store"
	"tableflip.dev/readershell/pkg/timeutil"
	"tableflip.dev/readershell/pkg/tui"
	"tableflip.dev/readershell/pkg/update"
)

func addRun(topLevel *cobra.Command) {
	ro := &options.RunOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reader shell with a simulated content view.",
		Example: `
readershell run
readershell run --flip-interval 30s --headless
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(ro)
		},
	}
	options.AddRunArgs(cmd, ro)

	topLevel.AddCommand(cmd)
}

func runShell(ro *options.RunOptions) error {
	log, err := newLogger(ro.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Open(nil, log)
	if err != nil {
		return err
	}

	if ro.FlipInterval != "" {
		d, label, err := timeutil.ParseInterval(ro.FlipInterval)
		if err != nil {
			return err
		}
		st.Set(settings.Patch{
			AutoFlip: &settings.AutoFlipPatch{Interval: settings.Int(timeutil.Seconds(d))},
		})
		log.Info("run: flip interval override", zap.String("interval", label))
	}

	site := nav.DefaultSite
	if !site.Reachable(time.Second) {
		log.Warn("run: site unreachable, starting offline", zap.String("domain", site.Domain))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := st.Watch(ctx); err != nil {
		log.Warn("run: settings watch unavailable", zap.Error(err))
	}

	upd := update.New(update.Disabled{}, st, log)
	go upd.Run(ctx)

	br := bridge.New()
	defer br.Close()
	sh := shell.New(st, br, site, flip.NopWakeLock{}, log)

	if ro.Headless {
		if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	conn := br.Connect(st.Get())

	done := make(chan error, 1)
	go func() {
		done <- sh.Run(ctx)
	}()

	p := tea.NewProgram(tui.New(br, conn, site))
	if _, err := p.Run(); err != nil {
		stop()
		<-done
		return err
	}
	stop()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
