package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/spiralstair/pkg/stair"
)

func validated(t *testing.T, height float64) stair.ValidatedInput {
	t.Helper()
	v, err := stair.Validate(stair.Input{
		CenterPoleDia: 6, OverallHeight: height, OutsideDia: 62, RotationDeg: 450, Direction: stair.Clockwise,
	})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestStores(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		ms, err := NewMongoStore(context.Background(), MongoConfig{URI: uri, Database: "spiralstair_test"})
		if err != nil {
			t.Fatalf("NewMongoStore: %v", err)
		}
		defer ms.Close(context.Background())
		stores["mongo"] = ms
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			testStore(t, store)
		})
	}
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()
	id := NewID()

	if got, err := store.Get(ctx, id); err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	s := New(id, validated(t, 144), "residential", time.Hour)
	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("Get: %v, %v", got, err)
	}
	if got.Input.OverallHeight != 144 || got.Profile != "residential" {
		t.Errorf("Get returned %+v", got)
	}

	expired := New(NewID(), validated(t, 100), "", -time.Minute)
	if err := store.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, expired.ID); got != nil {
		t.Error("expired session returned")
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup: %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, id); got != nil {
		t.Error("session still present after Delete")
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestPrefill(t *testing.T) {
	ctx := context.Background()
	p := NewPrefill(NewMemoryStore(), "")
	if p.ID() != DefaultID {
		t.Errorf("ID() = %q", p.ID())
	}

	last, err := p.Last(ctx)
	if err != nil || last != nil {
		t.Fatalf("Last() on empty store = %v, %v", last, err)
	}

	if err := p.Remember(ctx, validated(t, 144), "residential"); err != nil {
		t.Fatal(err)
	}
	if err := p.Remember(ctx, validated(t, 160), "commercial"); err != nil {
		t.Fatal(err)
	}

	last, err = p.Last(ctx)
	if err != nil || last == nil {
		t.Fatalf("Last() = %v, %v", last, err)
	}
	if last.OverallHeight != 160 {
		t.Errorf("Last().OverallHeight = %v, want 160", last.OverallHeight)
	}
	s, _ := p.Session(ctx)
	if s.Cycles != 2 || s.Profile != "commercial" {
		t.Errorf("session = %+v", s)
	}

	if err := p.Forget(ctx); err != nil {
		t.Fatal(err)
	}
	if last, _ := p.Last(ctx); last != nil {
		t.Error("Last() after Forget should be nil")
	}
}

func TestFileStoreWritesTOML(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, New(DefaultID, validated(t, 144), "residential", time.Hour)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), DefaultID+".toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`id = "local"`, "[input]", "overall_height = 144.0"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("session file missing %q:\n%s", want, data)
		}
	}

	// A hand-edited value is read back.
	edited := strings.Replace(string(data), "overall_height = 144.0", "overall_height = 150.0", 1)
	if err := os.WriteFile(filepath.Join(store.Dir(), DefaultID+".toml"), []byte(edited), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, DefaultID)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.Input.OverallHeight != 150 {
		t.Errorf("OverallHeight = %v, want 150", got.Input.OverallHeight)
	}
}
