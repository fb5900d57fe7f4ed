package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/upgradetree/pkg/cache"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/observability"
	"github.com/matzehuels/upgradetree/pkg/state"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

func testDefs() []upgrade.Def {
	return []upgrade.Def{
		{ID: "A", Cost: 1},
		{ID: "B", Cost: 2, Requires: []string{"A"}},
		{ID: "C", Cost: 3, Requires: []string{"A"}},
		{ID: "D", Cost: 4, Requires: []string{"B", "C"}},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func nodeByID(l graph.Layout, id string) graph.Node {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n
		}
	}
	return graph.Node{}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %v, want %v", tt.format, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var o Options
	o.SetLayoutDefaults()

	if o.LayerSpacing != 64 || o.NodeSpacing != 52 {
		t.Errorf("spacing = (%v, %v), want (64, 52)", o.LayerSpacing, o.NodeSpacing)
	}
	if o.Passes != 4 {
		t.Errorf("Passes = %d, want 4", o.Passes)
	}
	if o.TieBreak != "id" {
		t.Errorf("TieBreak = %q, want id", o.TieBreak)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}

	o.SetRenderDefaults()
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"stable", Options{TieBreak: "stable"}, false},
		{"unknown tie-break", Options{TieBreak: "random"}, true},
		{"negative passes", Options{Passes: -1}, true},
		{"negative spacing", Options{NodeSpacing: -5}, true},
		{"negative gold", Options{Gold: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	o := Options{LayerSpacing: 10, NodeSpacing: 20, Passes: 2, TieBreak: "stable"}
	if err := o.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	eo := o.EngineOptions()
	if eo.Spacing.Layer != 10 || eo.Spacing.Node != 20 || eo.Passes != 2 {
		t.Errorf("EngineOptions() = %+v", eo)
	}
	if eo.TieBreak.String() != "stable" {
		t.Errorf("TieBreak = %v, want stable", eo.TieBreak)
	}
}

func TestLoadDefs(t *testing.T) {
	defs, err := LoadDefs(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != len(upgrade.DefaultCatalog()) {
		t.Errorf("built-in catalog has %d upgrades, want %d", len(defs), len(upgrade.DefaultCatalog()))
	}

	path := filepath.Join(t.TempDir(), "tree.toml")
	var buf bytes.Buffer
	if err := upgrade.Write(&buf, testDefs(), upgrade.FormatTOML); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	defs, err = LoadDefs(Options{Catalog: path})
	if err != nil {
		t.Fatalf("LoadDefs(%s): %v", path, err)
	}
	if len(defs) != 4 || defs[3].ID != "D" {
		t.Errorf("LoadDefs() = %+v", defs)
	}

	_, err = LoadDefs(Options{Catalog: filepath.Join(t.TempDir(), "missing.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing catalog error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestHashDefs(t *testing.T) {
	h1, err := HashDefs(testDefs())
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashDefs(testDefs())
	if h1 != h2 {
		t.Error("HashDefs should be deterministic")
	}

	changed := testDefs()
	changed[1].Cost = 99
	h3, _ := HashDefs(changed)
	if h1 == h3 {
		t.Error("different definitions should hash differently")
	}
}

func TestGenerateLayout(t *testing.T) {
	l, err := GenerateLayout(testDefs(), Options{Purchased: []string{"A", "ghost"}, Gold: 2})
	if err != nil {
		t.Fatal(err)
	}

	if l.Layers != 3 {
		t.Errorf("Layers = %d, want 3", l.Layers)
	}
	want := map[string]state.NodeState{
		"A": state.Unlocked, "B": state.Available, "C": state.Available, "D": state.Locked,
	}
	for id, st := range want {
		if got := nodeByID(l, id).State; got != st {
			t.Errorf("%s state = %v, want %v", id, got, st)
		}
	}
	if !nodeByID(l, "B").Purchasable || nodeByID(l, "C").Purchasable {
		t.Error("only B should be affordable with 2 gold")
	}
	if l.Balance != 2 {
		t.Errorf("Balance = %d, want 2", l.Balance)
	}
}

func TestRunner_LayoutCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	first, hit, err := r.LayoutWithCacheInfo(ctx, testDefs(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first layout should miss the cache")
	}

	second, hit, err := r.LayoutWithCacheInfo(ctx, testDefs(), Options{Purchased: []string{"A", "B", "C"}, Gold: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second layout should hit the cache")
	}
	if second.BuildID != first.BuildID {
		t.Errorf("cached BuildID = %s, want %s", second.BuildID, first.BuildID)
	}
	if got := nodeByID(second, "D"); got.State != state.Available || !got.Purchasable {
		t.Errorf("D = %+v, want purchasable available", got)
	}
	for _, n := range first.Nodes {
		m := nodeByID(second, n.ID)
		if n.X != m.X || n.Y != m.Y {
			t.Errorf("%s moved from (%v,%v) to (%v,%v)", n.ID, n.X, n.Y, m.X, m.Y)
		}
	}

	_, hit, err = r.LayoutWithCacheInfo(ctx, testDefs(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("refresh should bypass the cache")
	}

	_, hit, _ = r.LayoutWithCacheInfo(ctx, testDefs(), Options{NodeSpacing: 80})
	if hit {
		t.Error("different spacing should miss the cache")
	}
}

func TestRunner_Render(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatDOT, FormatJSON}, Detailed: true}

	l, err := r.Layout(ctx, testDefs(), opts)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}

	if !strings.HasPrefix(string(artifacts[FormatSVG]), "<svg") {
		t.Errorf("svg artifact does not start with <svg: %.40q", artifacts[FormatSVG])
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact should contain a digraph")
	}
	back, err := graph.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(back.Nodes) != 4 {
		t.Errorf("json artifact has %d nodes, want 4", len(back.Nodes))
	}

	again, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
	if !bytes.Equal(again[FormatSVG], artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	if _, err := r.Render(ctx, l, Options{Formats: []string{"pdf"}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render(pdf) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestRunner_Execute(t *testing.T) {
	r := newTestRunner(t)

	result, err := r.Execute(context.Background(), Options{Purchased: []string{"U1"}})
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.UpgradeCount != len(upgrade.DefaultCatalog()) {
		t.Errorf("UpgradeCount = %d", result.Stats.UpgradeCount)
	}
	if result.Stats.Layers != 9 {
		t.Errorf("Layers = %d, want 9", result.Stats.Layers)
	}
	if result.DefsHash == "" {
		t.Error("DefsHash should be set")
	}
	if _, ok := result.Artifacts[FormatSVG]; !ok {
		t.Error("default format should be svg")
	}
	if got := nodeByID(result.Layout, "U1").State; got != state.Unlocked {
		t.Errorf("U1 state = %v, want unlocked", got)
	}

	again, err := r.Execute(context.Background(), Options{Purchased: []string{"U1"}})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want both hits", again.CacheInfo)
	}
}

func TestRunner_ExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := r.Execute(ctx, Options{Catalog: filepath.Join(t.TempDir(), "none.toml")}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing catalog error = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLayoutStart(context.Context, int) { h.record("layout") }
func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	h.record("render:" + strings.Join(formats, ","))
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.record("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.record("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.record("set") }

func TestRunner_Hooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatDOT}}

	l, err := r.Layout(ctx, testDefs(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Layout(ctx, testDefs(), opts); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(ctx, l, opts); err != nil {
		t.Fatal(err)
	}

	want := []string{"layout", "miss", "set", "layout", "hit", "miss", "set", "render:dot"}
	if strings.Join(h.events, " ") != strings.Join(want, " ") {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}
