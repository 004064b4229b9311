//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/onkernel/hdimage/lib/providers"
)

// initializeApp is the injector function
func initializeApp() (*application, func(), error) {
	panic(wire.Build(
		providers.ProvideConfig,
		providers.ProvideLogger,
		providers.ProvideContext,
		providers.ProvideMeter,
		providers.ProvideMetrics,
		providers.ProvideBuilder,
		providers.ProvideTargets,
		wire.Struct(new(application), "*"),
	))
}
