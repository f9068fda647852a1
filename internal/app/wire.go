//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"audio2text/internal/app/converter"
	"audio2text/internal/config"
)

func InitializeConverter(cfg *config.Config, logger *zap.Logger) *converter.Converter {
	wire.Build(converter.NewConverter, provideLoader, provideWriter, provideRecorder, provideProgress)
	return &converter.Converter{}
}
