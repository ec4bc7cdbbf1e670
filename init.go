package main

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"

	"github.com/parceldirect/consign/internal/auth"
	"github.com/parceldirect/consign/internal/config"
	"github.com/parceldirect/consign/internal/telemetry"
	"github.com/parceldirect/consign/pkg/accounts"
	"github.com/parceldirect/consign/pkg/depot"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initAccountsClient(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *accounts.Client {
	return accounts.New(accounts.Config{
		BaseURL:         cfg.AccountsAPI,
		ValidateTimeout: cfg.AccountsValidateTimeout,
		UseMock:         cfg.AccountsUseMock,
	}, logger, tracer)
}

func initDepotClient(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *depot.Client {
	return depot.New(depot.Config{
		BaseURL: cfg.GazzingAPI,
		UseMock: cfg.GazzingUseMock,
	}, logger, tracer)
}

func initVerifier(cfg *config.Config) auth.Verifier {
	return auth.Verifier{
		Secret:    cfg.JWTSecret,
		Algorithm: cfg.JWTAlgorithm,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
	}
}
