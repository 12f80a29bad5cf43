package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
)

func newLanguagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages a backend supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanguages(cmd)
		},
	}
	cmd.Flags().String("backend", "", "Translation backend (defaults to TRANSLATE_BACKEND)")
	return cmd
}

func runLanguages(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("backend")
	if name == "" {
		name = cfg.Translate.Backend
	}
	b, err := translator.NewByName(name, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", b.Name, b.InfoURL())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range b.LanguagePairs() {
		fmt.Fprintf(tw, "%s\t%s\n", p.Code, p.Name)
	}
	return tw.Flush()
}
