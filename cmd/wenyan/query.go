package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/wenyan"
	bt "github.com/fwojciec/wenyan/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	var deep, thinking bool
	cmd := &cobra.Command{
		Use:   "query WORD SENTENCE",
		Short: "Explain WORD as used in SENTENCE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("deep") {
				deep = a.cfg.DeepThinking
			}
			q := wenyan.Query{
				Word:    strings.TrimSpace(args[0]),
				Context: strings.TrimSpace(args[1]),
				Deep:    deep,
			}
			return a.runQuery(cmd.Context(), q, thinking)
		},
	}
	cmd.Flags().BoolVarP(&deep, "deep", "d", false, "ask for deep thinking")
	cmd.Flags().BoolVar(&thinking, "thinking", false, "print the reasoning behind the answers")
	return cmd
}

// runQuery streams the quick answer to stdout and prints the structured
// results once every stream has ended.
func (a *app) runQuery(ctx context.Context, q wenyan.Query, showThinking bool) error {
	coord := wenyan.NewCoordinator(a.client(newNotifier(a.stderr)), wenyan.NewQuerySession(nil))
	out := &lockedWriter{w: a.stdout}
	err := coord.Query(ctx, q, wenyan.Handler{OnFlash: out.WriteString})

	session := coord.Session()
	if session.Flash() != "" {
		fmt.Fprintln(a.stdout)
	}
	theme := wenyan.DefaultTheme()
	styles := bt.NewStyles(theme)
	answers := bt.NewAnswersBlock(session, theme, styles)
	answers.Update(bt.KeywordMsg{Word: q.Word})
	blocks := []bt.Block{answers}
	if showThinking {
		thinking := bt.NewThinkingBlock(session, styles)
		thinking.Update(bt.ToggleMsg{})
		blocks = append(blocks, thinking)
	}
	blocks = append(blocks, bt.NewDictionaryBlock(session, styles), bt.NewFrequencyBlock(session, styles))
	a.printBlocks(blocks...)
	a.printUsage(session.Usage())
	return err
}

func newFreqCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "freq WORD",
		Short: "Show corpus frequency and example sentences for WORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("page must be at least 1: %w", wenyan.ErrValidation)
			}
			coord := wenyan.NewCoordinator(a.client(newNotifier(a.stderr)), wenyan.NewQuerySession(nil))
			err := coord.Frequency(cmd.Context(), strings.TrimSpace(args[0]), page)

			block := bt.NewFrequencyBlock(coord.Session(), bt.NewStyles(wenyan.DefaultTheme()))
			block.SetPage(page)
			a.printBlocks(block)
			return err
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page of example sentences")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "search EXCERPT",
		Short: "Locate the original text EXCERPT was taken from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := a.cfg.SearchTarget
			if cmd.Flags().Changed("target") {
				t = wenyan.SearchTarget(target)
			}
			if !t.Valid() {
				return fmt.Errorf("unknown search target %q: %w", t, wenyan.ErrValidation)
			}
			coord := wenyan.NewCoordinator(a.client(newNotifier(a.stderr)), wenyan.NewQuerySession(nil))
			out := &lockedWriter{w: a.stdout}
			err := coord.SearchOriginal(cmd.Context(), args[0], t, wenyan.Handler{OnSearchOriginal: out.WriteString})
			if coord.Session().SearchOriginal() != "" {
				fmt.Fprintln(a.stdout)
			}
			a.printUsage(coord.Session().Usage())
			return err
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "how much text to return: none, sentence, paragraph, full-text")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract PROMPT",
		Short: "Run the model-test extraction for PROMPT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.client(newNotifier(a.stderr))
			var meter wenyan.UsageMeter
			out := &lockedWriter{w: a.stdout}
			h := wenyan.Handler{OnExtract: out.WriteString, OnUsage: meter.Add}
			id := "extract-" + uuid.NewString()
			err := client.ExtractModelTest(cmd.Context(), id, args[0], h)
			fmt.Fprintln(a.stdout)
			a.printUsage(meter.Total())
			return err
		},
	}
}

func (a *app) printBlocks(blocks ...bt.Block) {
	width := a.width()
	for _, b := range blocks {
		if view := b.View(width); view != "" {
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, view)
		}
	}
}

func (a *app) printUsage(total wenyan.UsageTotal) {
	if total.PromptTokens+total.CompletionTokens == 0 {
		return
	}
	fmt.Fprintf(a.stderr, "tokens %s in, %s out, cost %s\n",
		wenyan.FormatThousands(int64(total.PromptTokens)),
		wenyan.FormatThousands(int64(total.CompletionTokens)),
		wenyan.FormatThousands(total.Cost()))
}
