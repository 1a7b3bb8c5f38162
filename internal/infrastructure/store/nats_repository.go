// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// INatsKeyValue is the subset of jetstream.KeyValue used by the repositories.
type INatsKeyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}

// NATS Key-Value store bucket names
const (
	KVStoreNameTenantZoomCredentials = "tenant-zoom-credentials"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/store"

// CreateKeyValueStores opens (creating if needed) the buckets the service uses.
func CreateKeyValueStores(ctx context.Context, js jetstream.JetStream) (map[string]jetstream.KeyValue, error) {
	stores := make(map[string]jetstream.KeyValue)
	for _, bucket := range []string{KVStoreNameTenantZoomCredentials} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "Zoom Server-to-Server OAuth credentials per tenant",
			History:     5,
		})
		if err != nil {
			return nil, err
		}
		stores[bucket] = kv
	}
	return stores, nil
}
