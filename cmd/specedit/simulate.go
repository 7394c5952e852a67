package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/echocog/specedit/internal/specedit"
)

func newSimulateCmd() *cobra.Command {
	var draftStr, generatedStr string
	var k int

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Bind a draft and replay a sequence of generated tokens through the aligner",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := parseTokens(draftStr)
			if err != nil {
				return fmt.Errorf("invalid --draft: %w", err)
			}
			steps, err := parseSteps(generatedStr)
			if err != nil {
				return fmt.Errorf("invalid --generated: %w", err)
			}

			core := specedit.NewCore(specedit.DefaultConfig(), nil)
			req := specedit.RequestID(uuid.NewString())
			core.Bind(req, draft)
			defer core.Finish(req)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"step", "generated so far", "proposed chunk"})

			for i, gen := range steps {
				res := core.Propose(req, gen, k)
				table.Append([]string{
					strconv.Itoa(i),
					formatTokens(gen),
					formatChunk(res),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&draftStr, "draft", "", "comma-separated draft tokens")
	cmd.Flags().StringVar(&generatedStr, "generated", "", "semicolon-separated steps, each a comma-separated token list")
	cmd.Flags().IntVar(&k, "k", 16, "max tokens to request per step")
	_ = cmd.MarkFlagRequired("draft")
	_ = cmd.MarkFlagRequired("generated")
	return cmd
}

func parseTokens(s string) ([]specedit.Token, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]specedit.Token, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, specedit.Token(v))
	}
	return out, nil
}

func parseSteps(s string) ([][]specedit.Token, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	steps := strings.Split(s, ";")
	out := make([][]specedit.Token, 0, len(steps))
	for _, step := range steps {
		toks, err := parseTokens(step)
		if err != nil {
			return nil, err
		}
		out = append(out, toks)
	}
	return out, nil
}

func formatTokens(tokens []specedit.Token) string {
	if len(tokens) == 0 {
		return "-"
	}
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = strconv.Itoa(int(t))
	}
	return strings.Join(parts, ",")
}

func formatChunk(res specedit.ChunkResult) string {
	switch {
	case res.Exhausted():
		return "<exhausted>"
	case res.NoProposal():
		return "<no-proposal>"
	default:
		return formatTokens(res.Tokens)
	}
}
