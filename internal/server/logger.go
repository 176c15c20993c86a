package server

import (
	"fmt"

	"go.uber.org/zap"
)

func NewLogger(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	if env == EnvProduction {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}
