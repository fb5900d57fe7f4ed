package economy

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/observability"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

func testCatalog() []upgrade.Def {
	return []upgrade.Def{
		{ID: "A", Cost: 2, Effect: upgrade.Add(upgrade.StatSessionDuration, 2)},
		{ID: "B", Cost: 5, Requires: []string{"A"}, Effect: upgrade.Multiply(upgrade.StatGoldMultiplier, 1.5)},
		{ID: "C", Cost: 1, Requires: []string{"A", "ghost"}, Effect: upgrade.Set(upgrade.StatMaxDucks, 30)},
		{ID: "D", Cost: 1, Requires: []string{"C"}, Effect: upgrade.Set(upgrade.StatMaxDucks, 55)},
	}
}

func TestPurchase(t *testing.T) {
	e := New(testCatalog(), 3, nil)

	tests := []struct {
		id   string
		code errors.Code
	}{
		{"B", errors.ErrCodePrerequisitesUnmet},
		{"X", errors.ErrCodeUpgradeNotFound},
		{"A", ""},
		{"A", errors.ErrCodeAlreadyPurchased},
		{"B", errors.ErrCodeInsufficientFunds},
		{"C", ""}, // ghost is not in the catalog
	}
	for _, tt := range tests {
		err := e.Purchase(tt.id)
		if got := errors.GetCode(err); got != tt.code {
			t.Errorf("Purchase(%s) code = %q, want %q (err %v)", tt.id, got, tt.code, err)
		}
	}

	if e.Balance() != 0 {
		t.Errorf("Balance() = %d, want 0", e.Balance())
	}
	if got := e.Purchased(); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("Purchased() = %v, want [A C]", got)
	}
	s := e.Stats()
	if s.SessionDuration != 12 || s.MaxDucks != 30 {
		t.Errorf("Stats() = %+v, want session 12 and max ducks 30", s)
	}
}

func TestProvider(t *testing.T) {
	e := New(testCatalog(), 10, nil)
	_ = e.Purchase("A")

	if !e.IsPurchased("A") || e.IsPurchased("B") {
		t.Error("IsPurchased mismatch")
	}
	if e.Cost("B") != 5 || e.Cost("missing") != 0 {
		t.Errorf("Cost() = %d, %d", e.Cost("B"), e.Cost("missing"))
	}
	if e.Balance() != 8 {
		t.Errorf("Balance() = %d, want 8", e.Balance())
	}
}

func TestEarnAndKillReward(t *testing.T) {
	e := New(testCatalog(), 100, nil)

	if e.KillReward() != 1 {
		t.Errorf("KillReward() = %d, want 1", e.KillReward())
	}
	_ = e.Purchase("A")
	_ = e.Purchase("B") // gold x1.5 rounds to 2
	if e.KillReward() != 2 {
		t.Errorf("KillReward() = %d, want 2", e.KillReward())
	}

	before := e.Balance()
	if err := e.Earn(e.KillReward()); err != nil {
		t.Fatalf("Earn() = %v", err)
	}
	if e.Balance() != before+2 {
		t.Errorf("Balance() = %d, want %d", e.Balance(), before+2)
	}
	if err := e.Earn(-1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Earn(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	defs := append(testCatalog(), upgrade.Def{ID: "A", Cost: 99})
	e := New(defs, -5, nil)

	if e.Balance() != 0 {
		t.Errorf("Balance() = %d, want 0", e.Balance())
	}
	if e.Cost("A") != 2 {
		t.Errorf("duplicate catalog entry replaced the first: Cost(A) = %d", e.Cost("A"))
	}
	if len(e.Catalog()) != 4 {
		t.Errorf("Catalog() has %d entries, want 4", len(e.Catalog()))
	}
}

func TestNew_IDsWithSpaces(t *testing.T) {
	e := New([]upgrade.Def{
		{ID: ""},
		{ID: "Fire Duck", Cost: 3},
		{ID: "Y", Cost: 1, Requires: []string{"Fire Duck"}},
	}, 10, nil)

	if len(e.Catalog()) != 2 {
		t.Errorf("Catalog() has %d entries, want 2", len(e.Catalog()))
	}
	if err := e.CanPurchase(""); !errors.Is(err, errors.ErrCodeUpgradeNotFound) {
		t.Errorf("CanPurchase(\"\") = %v, want UPGRADE_NOT_FOUND", err)
	}
	if err := e.CanPurchase("Y"); !errors.Is(err, errors.ErrCodePrerequisitesUnmet) {
		t.Errorf("CanPurchase(Y) = %v, want PREREQUISITES_UNMET", err)
	}
	if err := e.Purchase("Fire Duck"); err != nil {
		t.Fatalf("Purchase(Fire Duck) error: %v", err)
	}
	if err := e.Purchase("Y"); err != nil {
		t.Errorf("Purchase(Y) error: %v", err)
	}
}

func TestSaveRestore(t *testing.T) {
	e := New(testCatalog(), 10, nil)
	_ = e.Purchase("A")
	_ = e.Purchase("C")
	_ = e.Purchase("D")

	snap, err := e.Save("slot1")
	if err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if snap.ID == "" || snap.SavedAt.IsZero() {
		t.Errorf("snapshot missing id or timestamp: %+v", snap)
	}

	// Purchases listed out of catalog order must still replay C before D.
	snap.Purchased = []string{"D", "A", "C", "removed"}
	other := New(testCatalog(), 0, nil)
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if other.Balance() != 6 {
		t.Errorf("Balance() = %d, want 6", other.Balance())
	}
	if got := other.Stats(); got != e.Stats() {
		t.Errorf("restored stats = %+v, want %+v", got, e.Stats())
	}
	if other.Stats().MaxDucks != 55 {
		t.Errorf("MaxDucks = %d, want 55", other.Stats().MaxDucks)
	}
	if got := other.Purchased(); !slices.Equal(got, []string{"A", "C", "D"}) {
		t.Errorf("Purchased() = %v", got)
	}
}

func TestSave_InvalidSlot(t *testing.T) {
	e := New(testCatalog(), 0, nil)
	for _, slot := range []string{"", "../x", ".hidden"} {
		if _, err := e.Save(slot); err == nil {
			t.Errorf("Save(%q) = nil, want error", slot)
		}
	}
	if err := e.Restore(Snapshot{Slot: "s", Gold: -1}); err == nil {
		t.Error("Restore() with negative gold = nil, want error")
	}
}

type purchaseRecorder struct {
	observability.NoopEconomyHooks
	bought   []string
	rejected []string
}

func (r *purchaseRecorder) OnPurchase(id string, _, _ int) { r.bought = append(r.bought, id) }
func (r *purchaseRecorder) OnPurchaseRejected(id, code string) {
	r.rejected = append(r.rejected, id+":"+code)
}

func TestPurchase_Hooks(t *testing.T) {
	rec := &purchaseRecorder{}
	observability.SetEconomyHooks(rec)
	defer observability.Reset()

	e := New(testCatalog(), 2, nil)
	_ = e.Purchase("A")
	_ = e.Purchase("B")

	if !slices.Equal(rec.bought, []string{"A"}) {
		t.Errorf("bought = %v", rec.bought)
	}
	if !slices.Equal(rec.rejected, []string{"B:INSUFFICIENT_FUNDS"}) {
		t.Errorf("rejected = %v", rec.rejected)
	}
}

func TestCatalogPlaythrough(t *testing.T) {
	e := New(upgrade.DefaultCatalog(), math.MaxInt32, nil)

	// Buying in catalog order always satisfies prerequisites.
	for _, d := range upgrade.DefaultCatalog() {
		if err := e.Purchase(d.ID); err != nil {
			t.Fatalf("Purchase(%s) = %v", d.ID, err)
		}
	}
	s := e.Stats()
	if s.MaxDucks != 55 {
		t.Errorf("MaxDucks = %d, want 55", s.MaxDucks)
	}
	if e.KillReward() != 2 {
		t.Errorf("KillReward() = %d, want 2", e.KillReward())
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() = %v", err)
	}
	defer store.Close()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) = %v, want NOT_FOUND", err)
	}

	e := New(testCatalog(), 10, nil)
	_ = e.Purchase("A")
	snap, _ := e.Save("main")
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.json")); err != nil {
		t.Errorf("expected main.json: %v", err)
	}

	got, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !got.Equal(snap) || got.ID != snap.ID {
		t.Errorf("Load() = %+v, want %+v", got, snap)
	}

	if err := store.Delete(ctx, "main"); err != nil {
		t.Errorf("Delete() = %v", err)
	}
	if err := store.Delete(ctx, "main"); err != nil {
		t.Errorf("second Delete() = %v, want nil", err)
	}
	if _, err := store.Load(ctx, "main"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() after Delete = %v", err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewFileStore(dir)
	if _, err := store.Load(context.Background(), "bad"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(bad) = %v, want INVALID_FORMAT", err)
	}
	if err := store.Save(context.Background(), Snapshot{Slot: "a/b"}); err == nil {
		t.Error("Save() with path separator = nil, want error")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := OpenStore(ctx, StoreOptions{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenStore(file) = %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("OpenStore() = %T, want *FileStore", s)
	}

	tests := []struct {
		opts StoreOptions
		code errors.Code
	}{
		{StoreOptions{Backend: "s3"}, errors.ErrCodeInvalidConfig},
		{StoreOptions{Backend: BackendRedis}, errors.ErrCodeInvalidConfig},
		{StoreOptions{Backend: BackendMongo, MongoURI: "http://x"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		if _, err := OpenStore(ctx, tt.opts); !errors.Is(err, tt.code) {
			t.Errorf("OpenStore(%+v) = %v, want %s", tt.opts, err, tt.code)
		}
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("UPGRADETREE_TEST_REDIS")
	if addr == "" {
		t.Skip("UPGRADETREE_TEST_REDIS not set")
	}
	testStoreRoundTrip(t, func(ctx context.Context) (Store, error) {
		return NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "upgradetree:test:"})
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("UPGRADETREE_TEST_MONGO")
	if uri == "" {
		t.Skip("UPGRADETREE_TEST_MONGO not set")
	}
	testStoreRoundTrip(t, func(ctx context.Context) (Store, error) {
		return NewMongoStore(ctx, MongoConfig{URI: uri, Database: "upgradetree_test"})
	})
}

func testStoreRoundTrip(t *testing.T, open func(context.Context) (Store, error)) {
	t.Helper()
	ctx := context.Background()
	store, err := open(ctx)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	snap := Snapshot{ID: "id-1", Slot: "roundtrip", Gold: 42, Purchased: []string{"U1", "U3"}}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	defer store.Delete(ctx, snap.Slot)

	got, err := store.Load(ctx, snap.Slot)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !got.Equal(snap) {
		t.Errorf("Load() = %+v, want %+v", got, snap)
	}
}
