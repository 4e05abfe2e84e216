package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/aquacare-backend/internal/config"
	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

const refreshTokenPrefix = "refresh_token:"

type RefreshTokenRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
}

func NewRefreshTokenRepository(pool *redis.Pool, logger *zap.SugaredLogger) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		pool:   pool,
		logger: logger,
	}
}

// Add stores the session for the user. A colliding session returns
// model.ErrAlreadyExists so the caller can generate a new one.
func (r *RefreshTokenRepository) Add(ctx context.Context, session string, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer r.closeConn(conn)

	reply, err := redis.String(conn.Do("SET", refreshTokenPrefix+session, id, "EX", int(config.SessionTTl().Seconds()), "NX"))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SET: %w", err)
	}

	if reply != "OK" {
		return fmt.Errorf("unexpected reply: %v", reply)
	}

	return nil
}

func (r *RefreshTokenRepository) Get(ctx context.Context, session string) (int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer r.closeConn(conn)

	id, err := redis.Int64(conn.Do("GET", refreshTokenPrefix+session))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("GET: %w", err)
	}

	return id, nil
}

// Refresh replaces an old session with a new one.
func (r *RefreshTokenRepository) Refresh(ctx context.Context, old, new string) error {
	id, err := r.Get(ctx, old)
	if err != nil {
		return err
	}

	if err := r.Add(ctx, new, id); err != nil {
		return err
	}

	return r.Delete(ctx, old)
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, session string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer r.closeConn(conn)

	if _, err := conn.Do("DEL", refreshTokenPrefix+session); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		r.logger.Errorw("Failed closing redis connection", "err", err)
	}
}
