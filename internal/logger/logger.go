// Package logger builds the zap loggers used across the service.
package logger

import "go.uber.org/zap"

// New creates a zap logger appropriate for the given environment.
// Production environments get JSON output, everything else gets the
// human-readable development encoder.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewNamed creates an environment-appropriate logger tagged with the
// service name so aggregated logs can be filtered per service.
func NewNamed(env, service string) (*zap.Logger, error) {
	log, err := New(env)
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", service)), nil
}
