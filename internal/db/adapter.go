package db

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Joseda-hg/lazyplan/internal/metrics"
	"github.com/Joseda-hg/lazyplan/internal/model"
)

const (
	DataKey = "lazyplan_data"
	UserKey = "lazyplan_user"
)

// Adapter round-trips the document and the session record through a KV.
// It never reports failures to callers: they are logged and the caller gets
// the empty default.
type Adapter struct {
	kv     KV
	logger zerolog.Logger
}

func NewAdapter(kv KV, logger zerolog.Logger) *Adapter {
	return &Adapter{kv: kv, logger: logger.With().Str("component", "persistence").Logger()}
}

func (a *Adapter) Load(ctx context.Context) model.Document {
	raw, ok, err := a.kv.Get(ctx, DataKey)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to load data")
		return model.Empty()
	}
	if !ok {
		return model.Empty()
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		a.logger.Error().Err(err).Msg("stored data is malformed, starting empty")
		return model.Empty()
	}
	return doc.Normalize()
}

func (a *Adapter) Save(ctx context.Context, doc model.Document) {
	payload, err := json.Marshal(doc.Normalize())
	if err != nil {
		metrics.Persists.WithLabelValues("error").Inc()
		a.logger.Error().Err(err).Msg("failed to encode data")
		return
	}
	if err := a.kv.Set(ctx, DataKey, string(payload)); err != nil {
		metrics.Persists.WithLabelValues("error").Inc()
		a.logger.Error().Err(err).Msg("failed to save data")
		return
	}
	metrics.Persists.WithLabelValues("ok").Inc()
	a.logger.Debug().Int("bytes", len(payload)).Msg("saved data")
}

// LoadUser returns nil when no session is stored or it cannot be read.
func (a *Adapter) LoadUser(ctx context.Context) *model.User {
	raw, ok, err := a.kv.Get(ctx, UserKey)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to load user")
		return nil
	}
	if !ok {
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		a.logger.Error().Err(err).Msg("stored user is malformed")
		return nil
	}
	return &user
}

func (a *Adapter) SaveUser(ctx context.Context, user model.User) {
	payload, err := json.Marshal(user)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to encode user")
		return
	}
	if err := a.kv.Set(ctx, UserKey, string(payload)); err != nil {
		a.logger.Error().Err(err).Msg("failed to save user")
	}
}

func (a *Adapter) ClearUser(ctx context.Context) {
	if err := a.kv.Delete(ctx, UserKey); err != nil {
		a.logger.Error().Err(err).Msg("failed to clear user")
	}
}

func (a *Adapter) ResetAll(ctx context.Context) {
	if err := a.kv.Delete(ctx, DataKey); err != nil {
		a.logger.Error().Err(err).Msg("failed to reset data")
	}
	if err := a.kv.Delete(ctx, UserKey); err != nil {
		a.logger.Error().Err(err).Msg("failed to reset user")
	}
}
