package join_event

import (
	"context"

	joinEvent "github.com/lumeo-app/booking-service/internal/usecase/join_event"
)

type JoinEventUseCase interface {
	Execute(ctx context.Context, req *joinEvent.Request) (*joinEvent.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
