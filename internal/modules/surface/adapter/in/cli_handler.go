package in

import (
	"context"

	"chapterly/internal/modules/surface/dto"
	surfacein "chapterly/internal/modules/surface/port/in"
)

type CLIHandler struct {
	usecase surfacein.Usecase
}

func NewCLIHandler(usecase surfacein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.SurfaceInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Check(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
