// Package serve runs the HTTP ingest server.
package serve

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/juandaherrera/finmail/cmd/root"
	"github.com/juandaherrera/finmail/internal/api"
)

// Cmd is the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server that receives email payloads on POST /ingest.",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := root.NewService(cmd.Context())
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		api.NewHandler(service).Register(mux)

		server := &http.Server{
			Addr:              root.Cfg.Server.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		root.Log.WithField("addr", root.Cfg.Server.Addr).Info("Starting ingest server")
		return server.ListenAndServe()
	},
}
