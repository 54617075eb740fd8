//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"go-shortlink/internal/biz"
	"go-shortlink/internal/conf"
	"go-shortlink/internal/data"
	"go-shortlink/internal/infra/eventbus"
	"go-shortlink/internal/metrics"
	"go-shortlink/internal/server"
	"go-shortlink/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Shortener, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		eventbus.ProviderSet,
		metrics.ProviderSet,
		newApp,
	))
}
