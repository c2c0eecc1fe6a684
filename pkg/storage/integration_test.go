//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

// Run with: go test -tags integration ./pkg/storage/...
// FLOWMAP_REDIS_ADDR and FLOWMAP_MONGO_URI select the servers to test against.

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("FLOWMAP_REDIS_ADDR")
	if addr == "" {
		t.Skip("FLOWMAP_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	scoped := NewScopedKeyer(nil, "test:"+uuid.NewString()+":")
	repo := NewRepository(NewPersister(s, WithBackoff(fastBackoff)), scoped)
	t.Cleanup(func() { repo.DeleteDocument(ctx, "launch") })

	want := sampleFlowchart()
	if saved, err := repo.SaveFlowchart(ctx, "launch", want); err != nil || !saved {
		t.Fatalf("SaveFlowchart = %v, %v", saved, err)
	}
	got, err := repo.LoadFlowchart(ctx, "launch")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != want.Title || len(got.Nodes) != len(want.Nodes) || got.NextID != want.NextID {
		t.Errorf("round trip = %+v", got)
	}
	if docs, _ := repo.ListDocuments(ctx); len(docs) != 1 || docs[0] != "launch" {
		t.Errorf("ListDocuments = %v", docs)
	}
}

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("FLOWMAP_MONGO_URI")
	if uri == "" {
		t.Skip("FLOWMAP_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "flowmap_test", Collection: "kv_" + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close()

	storeContract(t, s)
}
