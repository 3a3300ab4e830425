package generator

import (
	"context"
	"testing"
)

type countingGenerator struct {
	response string
	calls    int
}

func (g *countingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.response, nil
}

func TestCacheHitSkipsInnerGenerator(t *testing.T) {
	inner := &countingGenerator{response: "```js\nconsole.log(1);\n```"}

	cache, err := OpenCache(inner, t.TempDir(), "test-model")
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer cache.Close()

	first, err := cache.Generate(context.Background(), "same prompt")
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	second, err := cache.Generate(context.Background(), "same prompt")
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	if first != second {
		t.Errorf("expected identical responses, got %q and %q", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("expected exactly one inner call, got %d", inner.calls)
	}
}

func TestCacheMissesOnDifferentPrompts(t *testing.T) {
	inner := &countingGenerator{response: "resp"}

	cache, err := OpenCache(inner, t.TempDir(), "test-model")
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer cache.Close()

	if _, err := cache.Generate(context.Background(), "prompt a"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Generate(context.Background(), "prompt b"); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 2 {
		t.Errorf("expected two inner calls for distinct prompts, got %d", inner.calls)
	}
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	inner := &countingGenerator{response: "persisted"}

	cache, err := OpenCache(inner, dir, "test-model")
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	if _, err := cache.Generate(context.Background(), "prompt"); err != nil {
		t.Fatal(err)
	}
	cache.Close()

	reopened, err := OpenCache(inner, dir, "test-model")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "persisted" {
		t.Errorf("expected cached response, got %q", got)
	}
	if inner.calls != 1 {
		t.Errorf("expected no second inner call after reopen, got %d", inner.calls)
	}
}
