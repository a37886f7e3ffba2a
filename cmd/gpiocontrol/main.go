// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// gpiocontrol drives a set of named GPIO switches and serves commands to
// turn them on and off.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/api"
	"github.com/warthog618/go-gpiocontrol/internal/config"
	"github.com/warthog618/go-gpiocontrol/internal/logger"
	"github.com/warthog618/go-gpiocontrol/settings"
)

func main() {
	cfgPath := flag.String("config", "gpiocontrol.yaml", "path to the config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "gpiocontrol: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := openDriver(cfg.Driver, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close driver", "error", err)
		}
	}()

	c := gpiocontrol.New(d, gpiocontrol.WithLogger(log))
	if err := c.Startup(); err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error("release lines", "error", err)
		}
	}()

	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return err
	}
	cfgs, err := store.Configurations()
	if err != nil {
		return err
	}
	if err := c.ApplyAll(cfgs); err != nil {
		log.Error("apply configurations", "error", err)
	}
	store.OnSave(c.Reload)

	if cfg.API.Addr == "" {
		log.Info("api disabled, holding lines until signalled")
		<-ctx.Done()
		return nil
	}
	return serve(ctx, cfg.API, c, store, log)
}

func serve(ctx context.Context, cfg config.APIConfig, c *gpiocontrol.Controller, store *settings.Store, log *slog.Logger) error {
	tokens := make([]api.Token, len(cfg.Tokens))
	for i, t := range cfg.Tokens {
		tokens[i] = api.Token{Token: t.Token, Name: t.Name, Roles: t.Roles}
	}
	if len(tokens) == 0 {
		log.Warn("no api tokens configured, all requests will be rejected")
	}
	s := api.New(c, store, api.NewStaticTokenAuth(tokens),
		api.WithLogger(log),
		api.WithRateLimit(cfg.RequestsPerMin, cfg.Burst))
	if err := s.ListenAndServe(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "api")
	}
	return nil
}
