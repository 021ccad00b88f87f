package pantry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"pantry-keeper/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store persists pantry items in a per-user hash and notifies watchers of
// every mutation through pub/sub. Keys follow users:{userID}:pantry.
type Store struct {
	client *redis.Client
}

// NewStore wires an existing client; stores share one connection pool.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func pantryKey(userID string) string {
	return fmt.Sprintf("users:%s:pantry", userID)
}

func changeChannel(userID string) string {
	return fmt.Sprintf("users:%s:pantry:changed", userID)
}

// AddItem validates and persists a new item. The store assigns the identity;
// any id on the incoming item is ignored.
func (s *Store) AddItem(ctx context.Context, userID string, item Item) (string, error) {
	if err := item.Validate(); err != nil {
		return "", err
	}

	itemID := common.GenerateUUID()
	// The id lives in the hash field, not the stored value.
	item.ID = ""
	if item.CreatedAt == "" {
		item.CreatedAt = fmt.Sprintf("%d", time.Now().UnixMilli())
	}

	data, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal item: %w", err)
	}

	if err := s.client.HSet(ctx, pantryKey(userID), itemID, data).Err(); err != nil {
		return "", fmt.Errorf("failed to store item: %w", err)
	}
	s.publishChange(ctx, userID)

	common.LogInfo("pantry item added",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
		zap.String("name", item.Name),
	)
	return itemID, nil
}

// UpdateItem overwrites an existing item in place.
func (s *Store) UpdateItem(ctx context.Context, userID string, item Item) error {
	if item.ID == "" {
		return common.NewValidationError("item id is required")
	}
	if err := item.Validate(); err != nil {
		return err
	}

	exists, err := s.client.HExists(ctx, pantryKey(userID), item.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}
	if !exists {
		return common.ErrItemNotFound
	}

	itemID := item.ID
	item.ID = ""
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	if err := s.client.HSet(ctx, pantryKey(userID), itemID, data).Err(); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	s.publishChange(ctx, userID)

	common.LogInfo("pantry item updated",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
	)
	return nil
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, userID, itemID string) error {
	removed, err := s.client.HDel(ctx, pantryKey(userID), itemID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if removed == 0 {
		return common.ErrItemNotFound
	}
	s.publishChange(ctx, userID)

	common.LogInfo("pantry item deleted",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
	)
	return nil
}

// ListItems returns the user's full pantry. Items that fail to decode are
// reported in the second return value instead of being silently dropped.
func (s *Store) ListItems(ctx context.Context, userID string) ([]Item, []error, error) {
	fields, err := s.client.HGetAll(ctx, pantryKey(userID)).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read pantry: %w", err)
	}
	items, decodeErrs := DecodeSnapshot(fields)
	for _, derr := range decodeErrs {
		common.LogWarn("skipping undecodable pantry item",
			zap.String("user_id", userID),
			zap.Error(derr),
		)
	}
	return items, decodeErrs, nil
}

// ListExpiring returns the items expiring within windowDays of ref.
func (s *Store) ListExpiring(ctx context.Context, userID string, windowDays int, ref time.Time) ([]Item, error) {
	items, _, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	expiring := make([]Item, 0, len(items))
	for _, item := range items {
		if IsExpiringWithin(item, windowDays, ref) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

// ListByCategory returns the items in one category.
func (s *Store) ListByCategory(ctx context.Context, userID, categoryID string) ([]Item, error) {
	items, _, err := s.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.CategoryID == categoryID {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Watch emits the full current item set immediately and again after every
// mutation to the user's pantry. Each emission replaces prior state
// wholesale. Cancelling ctx detaches the underlying subscription; a storage
// failure terminates the feed with the error on the second channel.
func (s *Store) Watch(ctx context.Context, userID string) (<-chan []Item, <-chan error) {
	snapshots := make(chan []Item, 1)
	errs := make(chan error, 1)

	pubsub := s.client.Subscribe(ctx, changeChannel(userID))

	go func() {
		defer close(snapshots)
		defer close(errs)
		defer func() {
			if err := pubsub.Close(); err != nil {
				common.LogWarn("failed to close pantry subscription",
					zap.String("user_id", userID),
					zap.Error(err),
				)
			}
		}()

		emit := func() bool {
			items, _, err := s.ListItems(ctx, userID)
			if err != nil {
				select {
				case errs <- err:
				case <-ctx.Done():
				}
				return false
			}
			select {
			case snapshots <- items:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					select {
					case errs <- common.ErrFeedTerminated:
					case <-ctx.Done():
					}
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return snapshots, errs
}

// WatchExpiring is Watch restricted to items inside the expiry window.
func (s *Store) WatchExpiring(ctx context.Context, userID string, windowDays int) (<-chan []Item, <-chan error) {
	snapshots, errs := s.Watch(ctx, userID)
	filtered := make(chan []Item, 1)

	go func() {
		defer close(filtered)
		for items := range snapshots {
			now := time.Now()
			expiring := make([]Item, 0, len(items))
			for _, item := range items {
				if IsExpiringWithin(item, windowDays, now) {
					expiring = append(expiring, item)
				}
			}
			select {
			case filtered <- expiring:
			case <-ctx.Done():
				return
			}
		}
	}()

	return filtered, errs
}

func (s *Store) publishChange(ctx context.Context, userID string) {
	if err := s.client.Publish(ctx, changeChannel(userID), "changed").Err(); err != nil {
		common.LogWarn("failed to publish pantry change",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// DecodeSnapshot turns a raw hash snapshot into items plus a per-item error
// list. Identity comes from the hash field when the record has none. Output
// order is stable: creation time, then id.
func DecodeSnapshot(fields map[string]string) ([]Item, []error) {
	items := make([]Item, 0, len(fields))
	var errs []error

	for itemID, raw := range fields {
		var item Item
		if err := common.ParseJSON(raw, &item); err != nil {
			errs = append(errs, fmt.Errorf("item %s: %w", itemID, err))
			continue
		}
		if item.ID == "" {
			item.ID = itemID
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].ID < items[j].ID
	})

	return items, errs
}
