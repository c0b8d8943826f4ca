package cli

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/repositories"
	"github.com/vastuconnect/booking_backend/services"
)

// backend holds the connections shared by every subcommand
type backend struct {
	cfg    *config.Config
	client *mongo.Client
	db     *mongo.Database
	redis  *redis.Client
	locks  *redislock.Client
	stores services.Stores
}

func connect(cfg *config.Config, withRedis bool) (*backend, error) {
	client, db, err := config.ConnectDB(cfg.Mongo)
	if err != nil {
		return nil, err
	}

	b := &backend{
		cfg:    cfg,
		client: client,
		db:     db,
		stores: services.Stores{
			Settings:    repositories.NewSettingsRepository(db),
			Bookings:    repositories.NewBookingRepository(db),
			Referrals:   repositories.NewReferralRepository(db),
			Profiles:    repositories.NewBAProfileRepository(db),
			Users:       repositories.NewUserRepository(db),
			Coupons:     repositories.NewCouponRepository(db),
			Withdrawals: repositories.NewWithdrawalRepository(db),
		},
	}
	if withRedis {
		b.redis, b.locks = config.ConnectRedis(cfg.Redis)
	}
	return b, nil
}

func (b *backend) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			config.GetLogger().WithError(err).Warn("closing redis")
		}
	}
	if err := b.client.Disconnect(ctx); err != nil {
		config.GetLogger().WithError(err).Warn("closing mongodb")
	}
}
