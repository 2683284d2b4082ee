package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chapterly/internal/modules/session/domain"
	sessiondto "chapterly/internal/modules/session/dto"
	sessionin "chapterly/internal/modules/session/port/in"
	sessionout "chapterly/internal/modules/session/port/out"
	"chapterly/internal/modules/session/service"
	"chapterly/internal/platform/calendar"
	"chapterly/internal/platform/clock"
	apperrors "chapterly/internal/platform/errors"
	"chapterly/internal/platform/logging"
	"chapterly/internal/platform/tx"
)

const defaultTickInterval = time.Second

type Deps struct {
	Service      *service.SessionService
	Books        sessionout.BookCatalog
	TimerState   sessionout.TimerStateStore
	Projection   sessionout.ProjectionPublisher
	Exporter     sessionout.LogExporter
	Tx           tx.Manager
	Clock        clock.Clock
	Logger       *slog.Logger
	TickInterval time.Duration
}

// Interactor owns the stopwatch. Every command runs under mu, so transitions are serialized.
// The projection is published after mu is released.
type Interactor struct {
	mu     sync.Mutex
	state  domain.Stopwatch
	ticker *ticker
	hub    *hub
	seq    uint64

	publishMu sync.Mutex
	published uint64

	svc          *service.SessionService
	books        sessionout.BookCatalog
	timerState   sessionout.TimerStateStore
	projection   sessionout.ProjectionPublisher
	exporter     sessionout.LogExporter
	txm          tx.Manager
	clock        clock.Clock
	logger       *slog.Logger
	tickInterval time.Duration
}

func NewInteractor(deps Deps) sessionin.Usecase {
	i := &Interactor{
		state:        domain.Idle(),
		hub:          newHub(),
		svc:          deps.Service,
		books:        deps.Books,
		timerState:   deps.TimerState,
		projection:   deps.Projection,
		exporter:     deps.Exporter,
		txm:          deps.Tx,
		clock:        deps.Clock,
		logger:       logging.OrDiscard(deps.Logger),
		tickInterval: deps.TickInterval,
	}
	if i.txm == nil {
		i.txm = tx.NoopManager{}
	}
	if i.clock == nil {
		i.clock = clock.SystemClock{}
	}
	if i.tickInterval <= 0 {
		i.tickInterval = defaultTickInterval
	}
	return i
}

// Restore reloads a timer left running or paused by a previous process. A timer whose
// stop already committed its session is dropped instead of being counted again.
func (i *Interactor) Restore(ctx context.Context) (sessiondto.TimerOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	state, err := i.timerState.Load(ctx)
	if errors.Is(err, apperrors.ErrNoActiveTimer) {
		i.state = domain.Idle()
		return i.output(ctx, i.clock.Now()), nil
	}
	if err != nil {
		return sessiondto.TimerOutput{}, err
	}
	if state.CommittingSessionID != "" {
		committed, err := i.svc.Committed(ctx, state.CommittingSessionID)
		if err != nil {
			return sessiondto.TimerOutput{}, err
		}
		if committed {
			i.logger.Warn("dropping timer already committed", "book_id", state.ActiveBookID, "session_id", state.CommittingSessionID)
			if err := i.timerState.Save(ctx, domain.Idle()); err != nil {
				i.logger.Error("timer state not cleared after commit", "book_id", state.ActiveBookID, "error", err)
			}
			i.state = domain.Idle()
			return i.output(ctx, i.clock.Now()), nil
		}
		state = state.Committing("")
	}
	i.state = state
	if state.Status == domain.StatusRunning {
		i.startTicker()
	}
	i.logger.Debug("timer restored", "status", state.Status, "book_id", state.ActiveBookID)
	return i.output(ctx, i.clock.Now()), nil
}

func (i *Interactor) StartTiming(ctx context.Context, input sessiondto.StartInput) (sessiondto.TimerOutput, error) {
	out, update, err := i.start(ctx, input)
	i.publishLogged(ctx, update)
	return out, err
}

func (i *Interactor) start(ctx context.Context, input sessiondto.StartInput) (sessiondto.TimerOutput, *projectionUpdate, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.clock.Now()
	bookID := strings.TrimSpace(input.BookID)
	next, err := i.state.Start(bookID, now)
	if err != nil {
		return sessiondto.TimerOutput{}, nil, err
	}
	book, err := i.books.ReadBook(ctx, bookID)
	if err != nil {
		return sessiondto.TimerOutput{}, nil, err
	}
	if err := i.timerState.Save(ctx, next); err != nil {
		return sessiondto.TimerOutput{}, nil, persistence("save timer state", err)
	}
	resumed := i.state.Status == domain.StatusPaused
	i.state = next
	i.startTicker()
	i.logger.Info("timer started", "book_id", bookID, "resumed", resumed)

	out := i.outputAt(now)
	out.BookTitle = book.Title
	return out, i.pendingUpdate(), nil
}

func (i *Interactor) PauseTiming(ctx context.Context) (sessiondto.TimerOutput, error) {
	out, update, err := i.pause(ctx)
	i.publishLogged(ctx, update)
	return out, err
}

func (i *Interactor) pause(ctx context.Context) (sessiondto.TimerOutput, *projectionUpdate, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.clock.Now()
	next, err := i.state.Pause(now)
	if err != nil {
		return sessiondto.TimerOutput{}, nil, err
	}
	if err := i.timerState.Save(ctx, next); err != nil {
		return sessiondto.TimerOutput{}, nil, persistence("save timer state", err)
	}
	i.state = next
	i.stopTicker()
	i.hub.broadcast(next.AccumulatedBeforePause)
	i.logger.Info("timer paused", "book_id", next.ActiveBookID, "elapsed", next.AccumulatedBeforePause)
	return i.output(ctx, now), i.pendingUpdate(), nil
}

// StopTiming commits the session and the accumulator in one transaction. On failure the
// stopwatch keeps its state so the caller can retry.
func (i *Interactor) StopTiming(ctx context.Context) (sessiondto.StopOutput, error) {
	out, update, err := i.stop(ctx)
	i.publishLogged(ctx, update)
	return out, err
}

func (i *Interactor) stop(ctx context.Context) (sessiondto.StopOutput, *projectionUpdate, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.clock.Now()
	next, elapsed, err := i.state.Stop(now)
	if err != nil {
		return sessiondto.StopOutput{}, nil, err
	}
	bookID := i.state.ActiveBookID
	hours := domain.Hours(elapsed)

	// The session id is written to the timer file before the commit, so a relaunch
	// after a crash or a failed clear can tell the reading is already stored.
	sessionID := i.svc.NewID()
	if err := i.timerState.Save(ctx, i.state.Committing(sessionID)); err != nil {
		return sessiondto.StopOutput{}, nil, persistence("mark timer state", err)
	}

	var (
		session   domain.Session
		bookTotal float64
		skipped   bool
	)
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		committed, err := i.svc.Commit(ctx, sessionID, bookID, hours, now)
		if err != nil {
			return err
		}
		session = committed
		book, err := i.books.ReadBook(ctx, bookID)
		if errors.Is(err, apperrors.ErrNotFound) {
			skipped = true
			return nil
		}
		if err != nil {
			return err
		}
		bookTotal = book.TotalReadingTime + hours
		return i.books.WriteAccumulator(ctx, bookID, bookTotal)
	})
	if err != nil {
		return sessiondto.StopOutput{}, nil, persistence("commit session", err)
	}

	if err := i.timerState.Save(ctx, next); err != nil {
		i.logger.Error("timer state not cleared after commit", "book_id", bookID, "session_id", sessionID, "error", err)
	}
	i.state = next
	i.stopTicker()
	i.hub.broadcast(0)
	i.logger.Info("timer stopped", "book_id", bookID, "hours", hours, "session_id", session.ID)

	out := sessiondto.StopOutput{
		Session:            toSessionOutput(session),
		Elapsed:            elapsed,
		BookTotal:          bookTotal,
		AccumulatorSkipped: skipped,
	}
	if skipped {
		return out, i.pendingUpdate(), fmt.Errorf("%w: book %s was removed, session %s kept without updating its total", apperrors.ErrNotFound, bookID, session.ID)
	}
	return out, i.pendingUpdate(), nil
}

func (i *Interactor) CurrentElapsed(ctx context.Context) (sessiondto.TimerOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.output(ctx, i.clock.Now()), nil
}

func (i *Interactor) Subscribe(ctx context.Context) <-chan time.Duration {
	return i.hub.subscribe(ctx)
}

func (i *Interactor) SessionsFor(ctx context.Context, bookID string) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.ListByBook(ctx, strings.TrimSpace(bookID))
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func (i *Interactor) AllSessions(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.All(ctx)
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func (i *Interactor) SessionsInTimeframe(ctx context.Context, input sessiondto.TimeframeInput) ([]sessiondto.SessionOutput, error) {
	tf, err := calendar.ParseTimeframe(input.Timeframe)
	if err != nil {
		return nil, err
	}
	ref := input.Reference
	if ref.IsZero() {
		ref = i.clock.Now()
	}
	sessions, err := i.svc.InTimeframe(ctx, tf, ref)
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func (i *Interactor) ExportLog(ctx context.Context, input sessiondto.ExportInput) (sessiondto.ExportOutput, error) {
	if strings.TrimSpace(input.Dir) == "" {
		return sessiondto.ExportOutput{}, fmt.Errorf("%w: export dir is required", apperrors.ErrInvalidInput)
	}
	if i.exporter == nil {
		return sessiondto.ExportOutput{}, fmt.Errorf("log exporter is not configured")
	}
	logs, err := i.svc.Logs(ctx)
	if err != nil {
		return sessiondto.ExportOutput{}, err
	}
	for idx := range logs {
		book, err := i.books.ReadBook(ctx, logs[idx].Book.ID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logs[idx].Missing = true
		case err != nil:
			return sessiondto.ExportOutput{}, err
		default:
			logs[idx].Book = book
		}
	}
	paths, err := i.exporter.Export(ctx, input.Dir, logs)
	return sessiondto.ExportOutput{Paths: paths}, err
}

// RefreshProjection republishes the most-read snapshot for the current timer state.
func (i *Interactor) RefreshProjection(ctx context.Context) error {
	i.mu.Lock()
	update := i.pendingUpdate()
	i.mu.Unlock()
	return i.publish(ctx, update)
}

func (i *Interactor) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopTicker()
	i.hub.closeAll()
}

func (i *Interactor) startTicker() {
	i.stopTicker()
	snapshot := i.state
	clk := i.clock
	i.ticker = startTicker(i.tickInterval, func() time.Duration { return snapshot.Elapsed(clk.Now()) }, i.hub.broadcast)
}

func (i *Interactor) stopTicker() {
	i.ticker.stop()
	i.ticker = nil
}

// projectionUpdate is a pin captured under mu. seq orders updates so a slow publish
// never overwrites a newer pin.
type projectionUpdate struct {
	pin domain.Pin
	seq uint64
}

// pendingUpdate must be called with mu held.
func (i *Interactor) pendingUpdate() *projectionUpdate {
	i.seq++
	return &projectionUpdate{pin: i.state.Pin(), seq: i.seq}
}

// publish runs outside mu, after the state change is durable. Surfaces may be slow
// subprocesses and must not hold up timer commands.
func (i *Interactor) publish(ctx context.Context, update *projectionUpdate) error {
	if i.projection == nil || update == nil {
		return nil
	}
	i.publishMu.Lock()
	defer i.publishMu.Unlock()
	if update.seq < i.published {
		return nil
	}
	i.published = update.seq
	return i.projection.Publish(ctx, update.pin)
}

// publishLogged never undoes a transition.
func (i *Interactor) publishLogged(ctx context.Context, update *projectionUpdate) {
	if err := i.publish(ctx, update); err != nil {
		i.logger.Warn("projection publish failed", "error", err)
	}
}

func (i *Interactor) output(ctx context.Context, now time.Time) sessiondto.TimerOutput {
	out := i.outputAt(now)
	if out.BookID != "" {
		if book, err := i.books.ReadBook(ctx, out.BookID); err == nil {
			out.BookTitle = book.Title
		}
	}
	return out
}

func (i *Interactor) outputAt(now time.Time) sessiondto.TimerOutput {
	status := i.state.Status
	if status == "" {
		status = domain.StatusIdle
	}
	return sessiondto.TimerOutput{
		Status:    string(status),
		BookID:    i.state.ActiveBookID,
		StartTime: i.state.StartTime,
		Elapsed:   i.state.Elapsed(now),
	}
}

func persistence(op string, err error) error {
	if errors.Is(err, apperrors.ErrPersistence) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrPersistence, err)
}

func toSessionOutput(s domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{ID: s.ID, BookID: s.BookID, Date: s.Date, Duration: s.Duration}
}

func toSessionOutputs(sessions []domain.Session) []sessiondto.SessionOutput {
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionOutput(s))
	}
	return out
}
