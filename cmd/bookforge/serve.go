package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opd-ai/bookforge/srv"
	"github.com/opd-ai/bookforge/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bookforge HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cfg.DataDir)
		if err != nil {
			return err
		}

		ui := srv.NewBookUI(cfg, st)

		log.Info().Str("addr", cfg.Addr).Bool("tls", cfg.TLS).Msg("server starting")
		if cfg.TLS {
			return srv.ListenAndServeTLS(cfg.Addr, cfg.CertFile, cfg.KeyFile, ui)
		}
		return http.ListenAndServe(cfg.Addr, ui)
	},
}
