package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/echocog/specedit/internal/specedit"
)

func newBenchCmd() *cobra.Command {
	var requests, draftLen, steps, k int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Fan out synthetic requests against the aligner and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			core := specedit.NewCore(specedit.DefaultConfig(), nil)

			g, _ := errgroup.WithContext(context.Background())
			start := time.Now()

			for i := 0; i < requests; i++ {
				g.Go(func() error {
					return runBenchRequest(core, draftLen, steps, k)
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			elapsed := time.Since(start)
			fmt.Fprintf(cmd.OutOrStdout(), "completed %d requests in %s (%.1f req/s)\n",
				requests, elapsed, float64(requests)/elapsed.Seconds())
			return nil
		},
	}

	cmd.Flags().IntVar(&requests, "requests", 100, "number of synthetic requests to run concurrently")
	cmd.Flags().IntVar(&draftLen, "draft-len", 256, "tokens per synthetic draft")
	cmd.Flags().IntVar(&steps, "steps", 8, "decode steps per request")
	cmd.Flags().IntVar(&k, "k", 16, "max tokens proposed per step")
	return cmd
}

func runBenchRequest(core *specedit.Core, draftLen, steps, k int) error {
	draft := randomDraft(draftLen)
	req := specedit.RequestID(uuid.NewString())
	core.Bind(req, draft)
	defer core.Finish(req)

	generated := make([]specedit.Token, 0, draftLen)
	for s := 0; s < steps; s++ {
		res := core.Propose(req, generated, k)
		if res.Exhausted() || res.NoProposal() {
			break
		}
		core.Admit(req, len(res.Tokens))
		generated = append(generated, res.Tokens...)
	}
	return nil
}

func randomDraft(n int) specedit.Draft {
	draft := make(specedit.Draft, n)
	for i := range draft {
		draft[i] = specedit.Token(rand.Intn(50))
	}
	return draft
}
