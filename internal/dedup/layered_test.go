package dedup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type flakyStore struct {
	inner Store
	fail  bool
}

func (f *flakyStore) Exists(ctx context.Context, key string) (bool, error) {
	if f.fail {
		return false, errors.New("connection refused")
	}
	return f.inner.Exists(ctx, key)
}

func (f *flakyStore) SetWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	if f.fail {
		return errors.New("connection refused")
	}
	return f.inner.SetWithTTL(ctx, key, ttl)
}

func (f *flakyStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	if f.fail {
		return "", false, errors.New("connection refused")
	}
	return f.inner.GetValue(ctx, key)
}

func (f *flakyStore) SetValueWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.fail {
		return errors.New("connection refused")
	}
	return f.inner.SetValueWithTTL(ctx, key, value, ttl)
}

func TestLayeredWritesReachBothStores(t *testing.T) {
	remote := &flakyStore{inner: NewLocalStore("", noopLogger())}
	local := NewLocalStore("", noopLogger())
	layered := NewLayeredStore(remote, local, noopLogger())

	ctx := context.Background()
	key := AlertKey("^GSPC", 2)

	if err := layered.SetWithTTL(ctx, key, time.Hour); err != nil {
		t.Fatalf("set should succeed: %v", err)
	}

	if exists, _ := remote.inner.Exists(ctx, key); !exists {
		t.Fatal("record should reach the remote store")
	}
	if exists, _ := local.Exists(ctx, key); !exists {
		t.Fatal("record should shadow into the local store")
	}
}

func TestLayeredFallsBackOnRemoteFailure(t *testing.T) {
	remote := &flakyStore{inner: NewLocalStore("", noopLogger())}
	local := NewLocalStore("", noopLogger())
	layered := NewLayeredStore(remote, local, noopLogger())

	ctx := context.Background()
	key := AlertKey("BTC-USD", 4)

	if err := layered.SetWithTTL(ctx, key, time.Hour); err != nil {
		t.Fatalf("set should succeed: %v", err)
	}

	remote.fail = true
	exists, err := layered.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists should fall back, not error: %v", err)
	}
	if !exists {
		t.Fatal("local shadow should answer when the remote is down")
	}
}

func TestLayeredRemoteWriteFailureNotFatal(t *testing.T) {
	remote := &flakyStore{inner: NewLocalStore("", noopLogger()), fail: true}
	local := NewLocalStore("", noopLogger())
	layered := NewLayeredStore(remote, local, noopLogger())

	ctx := context.Background()
	if err := layered.SetValueWithTTL(ctx, LastDispatchKey, "x", time.Hour); err != nil {
		t.Fatalf("remote write failure should degrade, not abort: %v", err)
	}

	if _, ok, _ := local.GetValue(ctx, LastDispatchKey); !ok {
		t.Fatal("local store should still hold the value")
	}
}
