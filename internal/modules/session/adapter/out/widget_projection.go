package out

import (
	"context"

	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
	widgetdto "chapterly/internal/modules/widget/dto"
	widgetin "chapterly/internal/modules/widget/port/in"
)

type WidgetProjection struct {
	widget widgetin.Usecase
}

func NewWidgetProjection(widget widgetin.Usecase) sessionout.ProjectionPublisher {
	return &WidgetProjection{widget: widget}
}

func (p *WidgetProjection) Publish(ctx context.Context, pin domain.Pin) error {
	_, err := p.widget.Refresh(ctx, widgetdto.RefreshInput{BookID: pin.BookID, TimerRunning: pin.Running, TimerStartTime: pin.StartTime})
	return err
}
