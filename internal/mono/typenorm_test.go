package mono

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"javamaybe/internal/resolve"
	"javamaybe/internal/types"
)

func TestNormalizerFallbackIsCachedPerEnv(t *testing.T) {
	n := NewNormalizer(nil)
	env := testEnv()
	first := n.Fallback(env)
	if first.Describe() != types.ObjectName {
		t.Fatalf("fallback = %s", first)
	}
	if n.Fallback(env) != first {
		t.Fatalf("second call returned a different pointer")
	}
	other := testEnv()
	if n.Fallback(other) == first {
		t.Fatalf("distinct environments share a fallback")
	}
	if n.cached() != 2 {
		t.Fatalf("cached = %d", n.cached())
	}
}

func TestNormalizerConcurrentPopulation(t *testing.T) {
	n := NewNormalizer(nil)
	env := testEnv()
	got := make([]*types.Type, 16)
	var wg sync.WaitGroup
	for i := range got {
		wg.Go(func() { got[i] = n.Fallback(env) })
	}
	wg.Wait()
	for _, g := range got[1:] {
		if g != got[0] {
			t.Fatalf("concurrent calls disagree")
		}
	}
}

func TestNormalizerConcrete(t *testing.T) {
	n := NewNormalizer(nil)
	env := testEnv()
	str := types.String()
	tests := []struct {
		name string
		in   *types.Type
		want string
	}{
		{"concrete passes", str, "java.lang.String"},
		{"primitive passes", types.MakePrimitive("int"), "int"},
		{"type variable", types.MakeTypeVar("T"), "java.lang.Object"},
		{"unresolved", types.MakeUnresolved("foo()"), "java.lang.Object"},
		{"nil", nil, "java.lang.Object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Concrete(env, tt.in).Describe(); got != tt.want {
				t.Fatalf("got %s", got)
			}
		})
	}
	if n.Concrete(env, str) != str {
		t.Fatalf("concrete type was copied")
	}
	if n.Concrete(env, types.MakeTypeVar("T")) != n.Fallback(env) {
		t.Fatalf("type variable is not normalized to the cached fallback")
	}
}

// fallbackFor populates n for an environment that is unreachable once it
// returns.
func fallbackFor(n *Normalizer) {
	if fb := n.Fallback(testEnv()); !fb.Is(types.ObjectName) {
		panic("fallback = " + fb.Describe())
	}
}

func TestNormalizerDropsCollectedEnv(t *testing.T) {
	n := NewNormalizer(nil)
	fallbackFor(n)
	if n.cached() != 1 {
		t.Fatalf("cached = %d", n.cached())
	}
	for range 100 {
		runtime.GC()
		if n.cached() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("cache still holds %d entries after the environment was collected", n.cached())
}

func TestNormalizerWithoutEnv(t *testing.T) {
	var env *resolve.Env
	if got := NewNormalizer(nil).Fallback(env); !got.Is(types.ObjectName) {
		t.Fatalf("fallback = %s", got)
	}
}
