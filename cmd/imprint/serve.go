// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/imprint/internal/api"
	"github.com/pdiddy/imprint/internal/catalog"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metadata, ISBN and planning operations over HTTP",
	Long: `Serve exposes the metadata parser, the ISBN codec, the template planner
and, unless --no-catalog is given, the read-only catalog routes as a JSON
HTTP API for layout-application scripts.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiCfg := api.Config{Logger: logger, MaxBody: cfg.Server.MaxBody}
	noCatalog, _ := cmd.Flags().GetBool("no-catalog")
	if !noCatalog {
		store, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()
		apiCfg.Store = store
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.New(apiCfg).Router(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "catalog", apiCfg.Store != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", srv.Addr, err)
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8750)")
	serveCmd.Flags().Bool("no-catalog", false, "serve without opening the catalog database")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
