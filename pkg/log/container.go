package log

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mwantia/fabric/pkg/container"
)

var loggerServiceType = reflect.TypeOf((*LoggerService)(nil)).Elem()

// Resolve looks up the registered LoggerService and returns a child logger for name.
// An empty name returns the registered logger itself.
func Resolve(ctx context.Context, sc *container.ServiceContainer, name string) (LoggerService, error) {
	ok, resolved := sc.ResolveByType(ctx, loggerServiceType)
	if !ok {
		return nil, fmt.Errorf("no logger service registered")
	}

	logger, ok := resolved.(LoggerService)
	if !ok {
		return nil, fmt.Errorf("resolved %T is not a LoggerService", resolved)
	}

	if name == "" {
		return logger, nil
	}
	return logger.Named(name), nil
}
