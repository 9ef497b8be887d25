package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"magento-quote-replica/internal/domain"
)

const (
	cartKeyPrefix     = "cart:"
	reservedKeyPrefix = "cart:reserved:"
	activeKeyPrefix   = "cart:active:"
	cartSeqKey        = "cart:seq"
	itemSeqKey        = "cart:item:seq"
)

type redisRepo struct {
	client *redis.Client
}

// NewRedis returns a Repository backed by Redis. Carts are stored as JSON
// blobs keyed by id, with secondary index keys for the reserved-order-id and
// active-cart-per-customer lookups.
func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client}
}

func (r *redisRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	id, err := r.client.Incr(ctx, cartSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis next cart id: %w", err)
	}

	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:              id,
		StoreID:         in.StoreID,
		CustomerIsGuest: true,
		ReservedOrderID: in.ReservedOrderID,
		Currency:        in.Currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	cart.RecalculateTotals()

	if err := r.write(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *redisRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (r *redisRepo) GetByReservedOrderID(ctx context.Context, reservedOrderID string) (*domain.Cart, error) {
	return r.getByIndex(ctx, reservedKeyPrefix+reservedOrderID)
}

func (r *redisRepo) GetActiveByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error) {
	return r.getByIndex(ctx, activeKeyPrefix+strconv.FormatInt(customerID, 10))
}

func (r *redisRepo) Save(ctx context.Context, cart *domain.Cart) error {
	prev, err := r.GetByID(ctx, cart.ID)
	if err != nil {
		return err
	}
	// Reserved order ids are set once.
	if cart.ReservedOrderID == "" {
		cart.ReservedOrderID = prev.ReservedOrderID
	}
	cart.UpdatedAt = time.Now().UTC()
	return r.write(ctx, cart)
}

// Assign is an optimistic transaction: the cart and active-index keys are
// watched, anonymity and the one-active-cart rule are rechecked, and the
// write is retried a few times if a concurrent writer invalidates the watch.
func (r *redisRepo) Assign(ctx context.Context, cart *domain.Cart) error {
	key := cartKey(cart.ID)
	watched := []string{key}
	activeKey := ""
	if cart.CustomerID != nil {
		activeKey = activeKeyPrefix + strconv.FormatInt(*cart.CustomerID, 10)
		watched = append(watched, activeKey)
	}

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("redis get cart: %w", err)
		}
		var prev domain.Cart
		if err := json.Unmarshal(data, &prev); err != nil {
			return fmt.Errorf("unmarshal cart: %w", err)
		}
		if prev.CustomerID != nil {
			return domain.ErrConflict
		}
		if activeKey != "" && cart.IsActive {
			n, err := tx.Exists(ctx, activeKey).Result()
			if err != nil {
				return fmt.Errorf("redis check active index: %w", err)
			}
			if n > 0 {
				return domain.ErrActiveCartExists
			}
		}

		next := *cart
		if next.ReservedOrderID == "" {
			next.ReservedOrderID = prev.ReservedOrderID
		}
		next.UpdatedAt = time.Now().UTC()
		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			if next.ReservedOrderID != "" {
				pipe.Set(ctx, reservedKeyPrefix+next.ReservedOrderID, next.ID, 0)
			}
			if activeKey != "" && next.IsActive {
				pipe.Set(ctx, activeKey, next.ID, 0)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := r.client.Watch(ctx, txn, watched...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return domain.ErrConflict
}

func (r *redisRepo) AddItem(ctx context.Context, cartID int64, item domain.CartItem) error {
	cart, err := r.GetByID(ctx, cartID)
	if err != nil {
		return err
	}

	itemID, err := r.client.Incr(ctx, itemSeqKey).Result()
	if err != nil {
		return fmt.Errorf("redis next item id: %w", err)
	}
	item.ID = itemID
	item.CartID = cartID
	cart.Items = append(cart.Items, item)
	cart.RecalculateTotals()
	cart.UpdatedAt = time.Now().UTC()

	return r.write(ctx, cart)
}

// Delete removes the cart and its index keys. The cart key is removed first
// on its own so exactly one concurrent caller observes the deletion.
func (r *redisRepo) Delete(ctx context.Context, cartID int64) error {
	cart, err := r.GetByID(ctx, cartID)
	if err != nil {
		return err
	}

	n, err := r.client.Del(ctx, cartKey(cartID)).Result()
	if err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	var indexKeys []string
	if cart.ReservedOrderID != "" {
		indexKeys = append(indexKeys, reservedKeyPrefix+cart.ReservedOrderID)
	}
	if cart.CustomerID != nil {
		indexKeys = append(indexKeys, activeKeyPrefix+strconv.FormatInt(*cart.CustomerID, 10))
	}
	if len(indexKeys) > 0 {
		if err := r.client.Del(ctx, indexKeys...).Err(); err != nil {
			return fmt.Errorf("redis del cart indexes: %w", err)
		}
	}
	return nil
}

func (r *redisRepo) Restore(ctx context.Context, cart *domain.Cart) error {
	return r.write(ctx, cart)
}

func (r *redisRepo) getByIndex(ctx context.Context, indexKey string) (*domain.Cart, error) {
	raw, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get index: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse indexed cart id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *redisRepo) write(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, cartKey(cart.ID), data, 0)
	if cart.ReservedOrderID != "" {
		pipe.Set(ctx, reservedKeyPrefix+cart.ReservedOrderID, cart.ID, 0)
	}
	if cart.CustomerID != nil {
		key := activeKeyPrefix + strconv.FormatInt(*cart.CustomerID, 10)
		if cart.IsActive {
			pipe.Set(ctx, key, cart.ID, 0)
		} else {
			pipe.Del(ctx, key)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write cart: %w", err)
	}
	return nil
}

func cartKey(id int64) string {
	return cartKeyPrefix + strconv.FormatInt(id, 10)
}
