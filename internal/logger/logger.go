// Package logger builds the zap logger used across the service.
package logger

import "go.uber.org/zap"

// New returns a production JSON logger tagged with the service name.
func New(service string) (*zap.Logger, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", service)), nil
}
