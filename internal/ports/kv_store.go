package ports

import "context"

// KeyValueStore is durable string storage. Get returns domain.ErrKeyNotFound
// for absent keys and Delete of an absent key succeeds.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
