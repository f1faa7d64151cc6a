/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: serve.go
Description: Serve command. Runs the HTTP inference service until interrupted.
*/

package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kleascm/genschema/pkg/server"
	"github.com/spf13/cobra"
)

// RunServe starts the inference service
func RunServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status("🚀 Serving schema inference on %s", cfg.Server.Addr)
	return srv.ListenAndServe(ctx)
}
