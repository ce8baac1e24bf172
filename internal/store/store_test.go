package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Ginger-Science/hypogen-ai/internal/extract"
	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// --- test doubles ---

// memKV is an in-memory KV for state machine tests.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// failKV accepts reads but rejects writes, simulating a full or
// unavailable backing store.
type failKV struct {
	memKV
}

func (f *failKV) Set(context.Context, string, string) error {
	return errors.New("store unavailable")
}

func sampleHypothesis() types.Hypothesis {
	return types.Hypothesis{
		Text:            "Genetic variation in the MC1R gene may explain population-level differences in pain sensitivity.",
		Insights:        []string{"Redheads require higher anesthetic doses"},
		ConfidenceScore: 85,
		CreatedAt:       time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

// --- state machine ---

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore(newMemKV())

	if _, ok := s.Graph(); ok {
		t.Error("new store reports a graph")
	}
	if _, ok := s.Statistics(); ok {
		t.Error("new store reports statistics")
	}
	if _, ok := s.LastUpdated(); ok {
		t.Error("new store reports a timestamp")
	}
}

func TestOnHypothesisEvent(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)

	if err := s.OnHypothesisEvent(context.Background(), sampleHypothesis()); err != nil {
		t.Fatal(err)
	}

	graph, ok := s.Graph()
	if !ok {
		t.Fatal("store still empty after hypothesis event")
	}
	if err := graph.Validate(); err != nil {
		t.Fatal(err)
	}

	statistics, ok := s.Statistics()
	if !ok {
		t.Fatal("no statistics after commit")
	}
	if statistics.TotalNodes != len(graph.Nodes) {
		t.Errorf("TotalNodes = %d, want %d", statistics.TotalNodes, len(graph.Nodes))
	}

	for _, key := range []string{KeyCurrentHypothesis, KeyGraph, KeyGraphTimestamp} {
		if _, ok := kv.data[key]; !ok {
			t.Errorf("key %s not persisted", key)
		}
	}
}

func TestLastWriteWins(t *testing.T) {
	s := NewStore(newMemKV())
	ctx := context.Background()

	if err := s.OnHypothesisEvent(ctx, sampleHypothesis()); err != nil {
		t.Fatal(err)
	}

	second := types.Hypothesis{Text: "no matching terms here", ConfidenceScore: 50}
	if err := s.OnHypothesisEvent(ctx, second); err != nil {
		t.Fatal(err)
	}

	graph, _ := s.Graph()
	if len(graph.Nodes) != 1 {
		t.Errorf("second commit not authoritative: %d nodes, want 1", len(graph.Nodes))
	}
	if graph.Nodes[0].Strength != 50 {
		t.Errorf("root strength = %d, want 50", graph.Nodes[0].Strength)
	}
}

func TestLoadRestoresPersistedGraph(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()

	if err := NewStore(kv).OnHypothesisEvent(ctx, sampleHypothesis()); err != nil {
		t.Fatal(err)
	}

	restored := NewStore(kv)
	ok, err := restored.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Load did not restore the persisted graph")
	}

	want := extract.BuildGraph(sampleHypothesis())
	got, _ := restored.Graph()
	if len(got.Nodes) != len(want.Nodes) || len(got.Chains) != len(want.Chains) {
		t.Errorf("restored graph has %d nodes / %d chains, want %d / %d",
			len(got.Nodes), len(got.Chains), len(want.Nodes), len(want.Chains))
	}

	if _, ok := restored.Statistics(); !ok {
		t.Error("statistics not recomputed on restore")
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := NewStore(newMemKV())

	ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Load restored a graph from an empty store")
	}
}

func TestLoadCorruptValue(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"nodes": [`,
		"wrong shape":  `{"weird": true}`,
		"missing root": `{"nodes": [{"id": "a", "type": "gene"}], "chains": []}`,
		"dangling edge": `{"nodes": [{"id": "main_hypothesis", "type": "hypothesis"}],
			"chains": [{"from": "main_hypothesis", "to": "ghost", "relationship": "leads_to"}]}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := newMemKV()
			kv.data[KeyGraph] = raw

			s := NewStore(kv)
			ok, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("corrupt value must not error: %v", err)
			}
			if ok {
				t.Error("corrupt value entered Populated state")
			}
			if _, ok := s.Graph(); ok {
				t.Error("corrupt value is being served")
			}
		})
	}
}

func TestRefreshFromCurrentHypothesis(t *testing.T) {
	kv := newMemKV()
	data, err := json.Marshal(sampleHypothesis())
	if err != nil {
		t.Fatal(err)
	}
	kv.data[KeyCurrentHypothesis] = string(data)

	s := NewStore(kv)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	graph, ok := s.Graph()
	if !ok {
		t.Fatal("refresh did not populate the store")
	}
	want := extract.BuildGraph(sampleHypothesis())
	if len(graph.Nodes) != len(want.Nodes) {
		t.Errorf("refreshed graph has %d nodes, want %d", len(graph.Nodes), len(want.Nodes))
	}
}

func TestRefreshFallsBackToPersistedGraph(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()

	if err := NewStore(kv).OnHypothesisEvent(ctx, sampleHypothesis()); err != nil {
		t.Fatal(err)
	}
	delete(kv.data, KeyCurrentHypothesis)

	s := NewStore(kv)
	if err := s.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Graph(); !ok {
		t.Error("refresh did not restore the persisted graph")
	}
}

func TestRefreshWithNothingStaysEmpty(t *testing.T) {
	s := NewStore(newMemKV())

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Graph(); ok {
		t.Error("refresh populated the store out of nothing")
	}
}

func TestClear(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv)
	ctx := context.Background()

	if err := s.OnHypothesisEvent(ctx, sampleHypothesis()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Graph(); ok {
		t.Error("store still populated after clear")
	}
	if _, ok := kv.data[KeyGraph]; ok {
		t.Error("persisted graph survived clear")
	}
	if _, ok := kv.data[KeyGraphTimestamp]; ok {
		t.Error("persisted timestamp survived clear")
	}
	// The current hypothesis belongs to the producer and must survive.
	if _, ok := kv.data[KeyCurrentHypothesis]; !ok {
		t.Error("clear removed the producer's current hypothesis")
	}
}

func TestPersistFailureKeepsCommit(t *testing.T) {
	s := NewStore(&failKV{memKV: *newMemKV()})

	err := s.OnHypothesisEvent(context.Background(), sampleHypothesis())
	if err == nil {
		t.Fatal("persistence failure not surfaced")
	}

	// In-memory commit is authoritative for the session despite the error.
	if _, ok := s.Graph(); !ok {
		t.Error("persistence failure discarded the in-memory commit")
	}
}

func TestGraphReturnsCopies(t *testing.T) {
	s := NewStore(newMemKV())
	if err := s.OnHypothesisEvent(context.Background(), sampleHypothesis()); err != nil {
		t.Fatal(err)
	}

	first, _ := s.Graph()
	first.Nodes[0].Strength = -1
	first.Nodes[0].OutgoingRefs = append(first.Nodes[0].OutgoingRefs, "tampered")

	second, _ := s.Graph()
	if second.Nodes[0].Strength == -1 {
		t.Error("caller mutation reached the committed graph")
	}
	for _, ref := range second.Nodes[0].OutgoingRefs {
		if ref == "tampered" {
			t.Error("caller mutation of refs reached the committed graph")
		}
	}
}

// --- SQLite KV ---

func TestSQLiteKV(t *testing.T) {
	kv, err := OpenKV(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() })

	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Errorf("Get(k) = %q, %v, %v; want v2", v, ok, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Error("key survived delete")
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Error("deleting an absent key must not error:", err)
	}
}

func TestStoreWithSQLiteKV(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := OpenKV(types.StoreConfig{DataDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := NewStore(kv).OnHypothesisEvent(ctx, sampleHypothesis()); err != nil {
		t.Fatal(err)
	}
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen, as a fresh process would, and restore.
	kv2, err := OpenKV(types.StoreConfig{DataDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv2.Close() })

	s := NewStore(kv2)
	ok, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("persisted graph not restored across reopen")
	}
	graph, _ := s.Graph()
	if err := graph.Validate(); err != nil {
		t.Fatal(err)
	}
}
