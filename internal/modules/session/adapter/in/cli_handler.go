package in

import (
	"context"
	"time"

	sessiondto "chapterly/internal/modules/session/dto"
	sessionin "chapterly/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, bookID string) (sessiondto.TimerOutput, error) {
	return h.usecase.StartTiming(ctx, sessiondto.StartInput{BookID: bookID})
}

func (h CLIHandler) Pause(ctx context.Context) (sessiondto.TimerOutput, error) {
	return h.usecase.PauseTiming(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (sessiondto.StopOutput, error) {
	return h.usecase.StopTiming(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.TimerOutput, error) {
	return h.usecase.CurrentElapsed(ctx)
}

func (h CLIHandler) Watch(ctx context.Context) <-chan time.Duration {
	return h.usecase.Subscribe(ctx)
}

func (h CLIHandler) Log(ctx context.Context, bookID string) ([]sessiondto.SessionOutput, error) {
	return h.usecase.SessionsFor(ctx, bookID)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (sessiondto.ExportOutput, error) {
	return h.usecase.ExportLog(ctx, sessiondto.ExportInput{Dir: dir})
}

func (h CLIHandler) RefreshProjection(ctx context.Context) error {
	return h.usecase.RefreshProjection(ctx)
}
