package trace

import (
	"context"
	"os"
	"time"
)

// Point emits an instant event. extra is read as key, value pairs.
func Point(t Tracer, scope Scope, name, detail string, extra ...string) {
	point(t, SpanContext{}, scope, name, detail, extra)
}

// Note is Point under the span and unit carried by ctx.
func Note(ctx context.Context, scope Scope, name, detail string, extra ...string) {
	point(FromContext(ctx), CurrentSpan(ctx), scope, name, detail, extra)
}

func point(t Tracer, sc SpanContext, scope Scope, name, detail string, extra []string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	ev := &Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: sc.SpanID,
		Unit:     sc.Unit,
		Name:     name,
		Detail:   detail,
	}
	if len(extra) > 1 {
		ev.Extra = make(map[string]string, len(extra)/2)
		for i := 0; i+1 < len(extra); i += 2 {
			ev.Extra[extra[i]] = extra[i+1]
		}
	}
	t.Emit(ev)
}

func isStdStream(w any) bool {
	f, ok := w.(*os.File)
	return ok && (f == os.Stderr || f == os.Stdout)
}
