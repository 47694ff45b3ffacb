package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"javamaybe/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run specialization whenever an input source changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	addRunFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "wait this long for changes to settle")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := readRunSettings(cmd)
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	return driver.Watch(ctx, driver.WatchOptions{
		Options:  s.opts,
		Debounce: debounce,
		OnRun: func(res *driver.Result, err error) {
			if err != nil {
				if ctx.Err() == nil {
					fmt.Fprintf(os.Stderr, "javamaybe: %v\n", err)
				}
				return
			}
			fmt.Fprintf(out, "[%s] ", time.Now().Format("15:04:05"))
			if ferr := finishRun(out, s, res); ferr != nil && !errors.Is(ferr, errFailed) {
				fmt.Fprintf(os.Stderr, "javamaybe: %v\n", ferr)
			}
		},
	})
}
