package queue

import (
	"testing"
	"time"

	"github.com/bean-boutique/internal/config"
)

func TestStorageEvictIdleTaskRoundTrip(t *testing.T) {
	before := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	task, err := NewStorageEvictIdleTask(StorageEvictIdlePayload{BeforeUnix: before.Unix()})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if task.Type() != TaskStorageEvictIdle {
		t.Fatalf("task type want %s got %s", TaskStorageEvictIdle, task.Type())
	}
	payload, err := ParseStorageEvictIdlePayload(task.Payload())
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if !payload.Before().Equal(before) {
		t.Fatalf("before want %v got %v", before, payload.Before())
	}
}

func TestStorageEvictIdlePayloadRejectsMissingCutoff(t *testing.T) {
	if _, err := NewStorageEvictIdleTask(StorageEvictIdlePayload{}); err == nil {
		t.Fatalf("zero cutoff should be rejected")
	}
	if _, err := ParseStorageEvictIdlePayload([]byte(`{}`)); err == nil {
		t.Fatalf("missing before_unix should be rejected")
	}
	if _, err := ParseStorageEvictIdlePayload([]byte(`not json`)); err == nil {
		t.Fatalf("invalid json should be rejected")
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueStorageEvictIdle(StorageEvictIdlePayload{BeforeUnix: 1}, time.Minute); err != nil {
		t.Fatalf("disabled client should skip enqueue, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 4})
	if opt.Addr != "redis:6380" || opt.DB != 2 || cfg.Concurrency != 4 {
		t.Fatalf("unexpected overrides: %+v %+v", opt, cfg)
	}
}
