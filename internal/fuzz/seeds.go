package fuzztests

import (
	"testing"
)

const maxFuzzInput = 16 << 10

var javaSeeds = []string{
	"",
	"class A {}\n",
	`import com.techshroom.javamaybe.Any;

class C {
	static void m(Any a, int b) {
		System.out.println(a);
	}

	void run() {
		m("x", 1);
		m(2.0, 3);
	}
}
`,
	`package p;

import com.techshroom.javamaybe.*;

public class Box<T> {
	@CompileOnly
	static void helper(Any v) {}

	T value;

	<U> U id(Any x, U u) {
		Any copy = x;
		return u;
	}

	void use(java.util.List<String> xs) {
		id(xs.get(0), 1);
		id(new int[0], "s");
		this.id(null, 'c');
	}

	static class Inner {
		void g(com.techshroom.javamaybe.Any a) {
			g(1L);
		}
	}
}
`,
	`enum E {
	A(1), B(2);

	E(int v) {}

	static void f(Any x) {}

	static {
		f(A);
		f((short) 1);
	}
}
`,
	`interface I {
	default void f(Any... xs) {
		for (Object x : xs) {
			if (x instanceof String s) {
				f(s);
			}
		}
	}
}
`,
	"class Broken { void m( {\n",
	"class L { Runnable r = () -> m(1); void m(Any a) { switch (a) { default -> {} } } }\n",
}

func addSeeds(f *testing.F) {
	for _, s := range javaSeeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
