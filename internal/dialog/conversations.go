package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/storage"
)

const lockStripes = 256

// Conversations runs the machine against stored sessions. Inputs for the
// same chat are applied one at a time. Chats share a fixed set of locks
// picked by chat id; nothing is allocated per chat.
type Conversations struct {
	machine      *Machine
	storage      storage.Storage
	modelVersion string
	logger       *zap.Logger
	locks        [lockStripes]sync.Mutex
}

func NewConversations(machine *Machine, storage storage.Storage, modelVersion string, logger *zap.Logger) *Conversations {
	return &Conversations{
		machine:      machine,
		storage:      storage,
		modelVersion: modelVersion,
		logger:       logger,
	}
}

func (c *Conversations) lock(chatID int64) func() {
	mu := &c.locks[stripe(chatID)]
	mu.Lock()
	return mu.Unlock
}

func stripe(chatID int64) int {
	return int(uint64(chatID) % lockStripes)
}

// Handle applies one action to the chat's session and persists the result.
func (c *Conversations) Handle(ctx context.Context, chatID, userID int64, a Action) (Reply, error) {
	unlock := c.lock(chatID)
	defer unlock()

	session, err := c.storage.GetSession(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		session = models.NewSession(chatID, userID)
	} else if err != nil {
		return Reply{}, fmt.Errorf("failed to load session: %w", err)
	}
	session.UserID = userID

	reply, handleErr := c.machine.Handle(session, a)

	if reply.Result != nil {
		c.record(ctx, session, reply.Result)
	}
	if err := c.persist(ctx, session); err != nil {
		return reply, err
	}
	return reply, handleErr
}

// Restart drops whatever the chat had in progress.
func (c *Conversations) Restart(ctx context.Context, chatID int64) error {
	unlock := c.lock(chatID)
	defer unlock()

	if err := c.storage.DeleteSession(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// State returns the chat's current dialogue step.
func (c *Conversations) State(ctx context.Context, chatID int64) (models.State, error) {
	session, err := c.storage.GetSession(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.StateIdle, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return session.State, nil
}

// History returns the user's latest estimates, newest first.
func (c *Conversations) History(ctx context.Context, userID int64, limit int) ([]*models.Estimate, error) {
	return c.storage.GetUserEstimates(ctx, userID, limit, 0)
}

func (c *Conversations) persist(ctx context.Context, session *models.Session) error {
	if session.State == models.StateIdle {
		if err := c.storage.DeleteSession(ctx, session.ChatID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	}
	session.UpdatedAt = time.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// record stores a finished estimate. A storage failure is logged only; the
// user still gets the quote.
func (c *Conversations) record(ctx context.Context, session *models.Session, r *Result) {
	estimate := &models.Estimate{
		ID:                uuid.New().String(),
		ChatID:            session.ChatID,
		UserID:            session.UserID,
		DistrictCode:      r.Apartment.DistrictCode,
		DistrictName:      r.DistrictName,
		ApartmentTypeCode: r.Apartment.ApartmentTypeCode,
		ApartmentTypeName: r.ApartmentTypeName,
		Area:              r.Apartment.Area,
		CurrentFloor:      r.Apartment.CurrentFloor,
		TotalFloors:       r.Apartment.TotalFloors,
		Price:             r.Quote.Price,
		Deviation:         r.Quote.Deviation,
		ModelVersion:      c.modelVersion,
		CreatedAt:         time.Now(),
	}
	if err := c.storage.SaveEstimate(ctx, estimate); err != nil {
		c.logger.Error("Failed to save estimate",
			zap.Error(err),
			zap.String("estimate_id", estimate.ID),
			zap.Int64("user_id", estimate.UserID))
	}
}
