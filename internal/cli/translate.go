package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/service"
)

func newTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <input.srt>",
		Short: "Translate one subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0])
		},
	}
	cmd.Flags().String("to", "", "Target language (defaults to TARGET_LANGUAGE)")
	cmd.Flags().String("from", "", "Source language (detected when empty)")
	cmd.Flags().String("backend", "", "Translation backend: google, microsoft or llm")
	cmd.Flags().StringP("out", "o", "", "Output path (defaults to <name>.<target>.srt)")
	cmd.Flags().Bool("no-auto-split", false, "Keep the source line breaks instead of re-breaking long lines")
	cmd.Flags().Bool("expand-contractions", false, "Expand English contractions before sending")
	return cmd
}

func runTranslate(cmd *cobra.Command, input string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	to, _ := cmd.Flags().GetString("to")
	from, _ := cmd.Flags().GetString("from")
	backend, _ := cmd.Flags().GetString("backend")
	out, _ := cmd.Flags().GetString("out")
	noAutoSplit, _ := cmd.Flags().GetBool("no-auto-split")
	expand, _ := cmd.Flags().GetBool("expand-contractions")
	if noAutoSplit {
		cfg.Translate.AutoSplit = false
	}
	if expand {
		cfg.Translate.ExpandContractions = true
	}

	stdout := cmd.OutOrStdout()
	ctl := &batch.Control{OnProgress: progressPrinter(stdout)}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	stop := interruptToCancel(ctl, cancel, cmd.ErrOrStderr())
	defer stop()

	svc := service.NewService(*cfg)
	res, err := svc.Translate(ctx, service.Request{
		Input:   input,
		Output:  out,
		Source:  from,
		Target:  to,
		Backend: backend,
	}, ctl)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %s -> %s via %s, %d batch(es) in %s\n",
		res.Report.State, res.Source, res.Target, res.Backend, res.Report.Batches, res.Duration.Round(time.Millisecond))
	for _, d := range res.Report.Diagnostics {
		fmt.Fprintf(stdout, "  warning: %s\n", d)
	}
	fmt.Fprintf(stdout, "wrote %s\n", res.Output)
	return nil
}

func progressPrinter(w io.Writer) func(batch.Progress) {
	return func(p batch.Progress) {
		fmt.Fprintf(w, "batch [%d,%d] %d/%d lines\n", p.Batch.Start, p.Batch.End, p.Done, p.Total)
	}
}

// interruptToCancel turns the first interrupt into a cooperative cancel at
// the next batch boundary and the second into a hard context cancel.
func interruptToCancel(ctl *batch.Control, cancel context.CancelFunc, errOut io.Writer) func() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		count := 0
		for {
			select {
			case <-done:
				return
			case <-sigCh:
				count++
				if count == 1 {
					fmt.Fprintln(errOut, "interrupt: finishing current batch, press again to abort")
					ctl.Cancel()
					continue
				}
				cancel()
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
