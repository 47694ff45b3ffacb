package fuzztests

import (
	"context"
	"testing"
	"time"

	"javamaybe/internal/diag"
	"javamaybe/internal/format"
	"javamaybe/internal/mono"
	"javamaybe/internal/parser"
	"javamaybe/internal/resolve"
	"javamaybe/internal/source"
)

// stepTimeout bounds a single input; longer means a likely infinite loop.
const stepTimeout = 5 * time.Second

func FuzzParseFormatRoundTrip(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		id := fs.AddVirtual("Fuzz.java", input)

		bag := diag.NewBag(128)
		unit, err := parser.ParseFile(context.Background(), fs, id, parser.Options{Reporter: diag.BagReporter{Bag: bag}, Strict: true})
		if err != nil {
			return
		}
		if ok, msg := format.CheckRoundTrip(unit, format.Options{}); !ok {
			t.Fatalf("printed unit does not parse back: %s\ninput:\n%s", msg, input)
		}
	})
}

func FuzzSpecializeNoPanic(f *testing.F) {
	addSeeds(f)
	env := resolve.NewEnv(resolve.NewReflection())
	m := mono.New(env, nil, mono.Options{})

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		unit, err := parser.Parse(input, 0, parser.Options{})
		if err != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
		defer cancel()
		select {
		case res := <-m.ProcessAsync(ctx, mono.Task{Unit: unit, Reporter: diag.NopReporter{}}):
			if res.Err != nil {
				return
			}
			if _, err := format.FormatUnit(res.Unit, format.Options{}); err != nil {
				t.Fatalf("format after specialization: %v", err)
			}
		case <-ctx.Done():
			t.Fatalf("specialization did not finish in %s\ninput:\n%s", stepTimeout, input)
		}
	})
}
