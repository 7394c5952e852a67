package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/echocog/specedit/internal/controlplane"
	"github.com/echocog/specedit/internal/specedit"
)

func newServeCmd() *cobra.Command {
	var addr string
	var ngramN int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the speculative-edit control plane HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := specedit.DefaultConfig()
			fallback := specedit.NewSimpleNgramSpeculator(ngramN)
			core := specedit.NewCore(cfg, fallback)

			srv := controlplane.New(core)
			log.Printf("specedit: control plane listening on %s", addr)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8089", "address to listen on")
	cmd.Flags().IntVar(&ngramN, "ngram-n", 3, "n-gram order for the fallback speculator")
	return cmd
}
