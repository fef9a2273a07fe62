package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rental-listings-importer/models"
)

const (
	redisKeyPrefix = "rental_listing:"
	redisIndexKey  = "rental_listings:ids"
)

// RedisStore keeps each listing in a hash named rental_listing:<id> and the
// set of known IDs in rental_listings:ids.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return &RedisStore{client: rdb}, nil
}

func redisKey(id int64) string {
	return redisKeyPrefix + strconv.FormatInt(id, 10)
}

// listingHash is the field set overwritten on every upsert. created_at is
// written separately with HSETNX so it survives later upserts.
func listingHash(l models.ListingRecord) map[string]interface{} {
	return map[string]interface{}{
		"name":             l.Name,
		"address":          l.Address,
		"apartment_number": l.ApartmentNumber,
		"rent":             l.Rent,
		"floor_area":       strconv.FormatFloat(l.FloorArea, 'f', -1, 64),
		"building_type":    string(l.BuildingType),
		"updated_at":       l.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Upsert applies the chunk in a MULTI/EXEC transaction.
func (r *RedisStore) Upsert(ctx context.Context, listings []models.ListingRecord) error {
	if len(listings) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, l := range listings {
			key := redisKey(l.ID)
			pipe.HSet(ctx, key, listingHash(l))
			pipe.HSetNX(ctx, key, "created_at", l.CreatedAt.UTC().Format(time.RFC3339Nano))
			pipe.SAdd(ctx, redisIndexKey, l.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: upsert %d listings: %w", len(listings), err)
	}
	return nil
}

func (r *RedisStore) FetchAll(ctx context.Context) ([]*models.ListingRecord, error) {
	members, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list ids: %w", err)
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(members))
	for i, m := range members {
		cmds[i] = pipe.HGetAll(ctx, redisKeyPrefix+m)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: fetch all: %w", err)
	}

	listings := make([]*models.ListingRecord, 0, len(members))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		l, err := decodeListingHash(members[i], fields)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

func decodeListingHash(id string, fields map[string]string) (*models.ListingRecord, error) {
	l := &models.ListingRecord{
		Name:            fields["name"],
		Address:         fields["address"],
		ApartmentNumber: fields["apartment_number"],
		BuildingType:    models.BuildingType(fields["building_type"]),
	}

	var err error
	if l.ID, err = strconv.ParseInt(id, 10, 64); err != nil {
		return nil, fmt.Errorf("redis: decode id %q: %w", id, err)
	}
	if l.Rent, err = strconv.ParseInt(fields["rent"], 10, 64); err != nil {
		return nil, fmt.Errorf("redis: decode rent of %s: %w", id, err)
	}
	if l.FloorArea, err = strconv.ParseFloat(fields["floor_area"], 64); err != nil {
		return nil, fmt.Errorf("redis: decode floor_area of %s: %w", id, err)
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return nil, fmt.Errorf("redis: decode created_at of %s: %w", id, err)
	}
	if l.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields["updated_at"]); err != nil {
		return nil, fmt.Errorf("redis: decode updated_at of %s: %w", id, err)
	}
	return l, nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, redisIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: count: %w", err)
	}
	return int(n), nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
