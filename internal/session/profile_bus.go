package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/repository"
)

// profileDocument is the wire form published on profile changes.
type profileDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	School    string    `json:"school"`
	Level     string    `json:"level"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileBus publishes profile changes over Redis pub/sub and serves watches
// that deliver an initial read followed by every published change, in order.
type ProfileBus struct {
	client   *redis.Client
	profiles repository.ProfileRepository
	prefix   string
	logger   *zap.Logger
}

// NewProfileBus builds the bus.
func NewProfileBus(client *redis.Client, profiles repository.ProfileRepository, prefix string, logger *zap.Logger) *ProfileBus {
	if prefix == "" {
		prefix = "internship"
	}
	return &ProfileBus{client: client, profiles: profiles, prefix: prefix, logger: logger}
}

func (b *ProfileBus) channel(profileID string) string {
	return b.prefix + ":profile:" + profileID
}

// Publish broadcasts the updated profile to every live watch.
func (b *ProfileBus) Publish(ctx context.Context, profile *domain.Profile) {
	payload, err := json.Marshal(encodeProfile(profile))
	if err != nil {
		b.logger.Error("marshal profile document", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, b.channel(profile.ID), payload).Err(); err != nil {
		b.logger.Warn("publish profile change", zap.String("profile_id", profile.ID), zap.Error(err))
	}
}

// Watch implements ProfileWatcher. The first emission reflects the stored
// document (nil when absent); later emissions follow Redis delivery order for
// the channel. Errors are reported through the callback, never by dropping to
// an absent profile.
func (b *ProfileBus) Watch(ctx context.Context, profileID string, fn func(*domain.Profile, error)) (func(), error) {
	sub := b.client.Subscribe(ctx, b.channel(profileID))
	// force the subscription onto the wire before the initial read so no
	// change published in between is lost
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		profile, err := b.profiles.GetByID(ctx, profileID)
		switch {
		case err == nil:
			fn(profile, nil)
		case errors.Is(err, pgx.ErrNoRows):
			fn(nil, nil)
		default:
			fn(nil, err)
		}

		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				profile, err := decodeProfile([]byte(msg.Payload))
				if err != nil {
					b.logger.Warn("decode profile document", zap.Error(err))
					fn(nil, err)
					continue
				}
				fn(profile, nil)
			}
		}
	}()

	var once func()
	closed := false
	once = func() {
		if closed {
			return
		}
		closed = true
		close(done)
		_ = sub.Close()
	}
	return once, nil
}

func encodeProfile(p *domain.Profile) profileDocument {
	return profileDocument{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		School:    p.School,
		Level:     string(p.Level),
		Role:      string(p.Role),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// decodeProfile validates enum fields at the boundary; unknown values are
// rejected rather than propagated.
func decodeProfile(payload []byte) (*domain.Profile, error) {
	var doc profileDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	level, err := domain.ParseLevel(doc.Level)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(doc.Role)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		ID:        doc.ID,
		Name:      doc.Name,
		Email:     doc.Email,
		Phone:     doc.Phone,
		School:    doc.School,
		Level:     level,
		Role:      role,
		Active:    doc.Active,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
