package in

import (
	"context"

	widgetdto "chapterly/internal/modules/widget/dto"
	widgetin "chapterly/internal/modules/widget/port/in"
)

type CLIHandler struct {
	usecase widgetin.Usecase
}

func NewCLIHandler(usecase widgetin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (widgetdto.SnapshotOutput, error) {
	return h.usecase.Show(ctx)
}
