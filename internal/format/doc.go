// Package format renders an ast.CompilationUnit back to Java source.
//
// Назначение: печать дерева после специализации, включая узлы, созданные пассом.
// Не делает: сохранения исходного форматирования (кроме Raw-узлов) и IO.
// Зависимости: internal/ast, internal/parser (только для CheckRoundTrip).
package format
