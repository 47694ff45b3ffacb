// Package fuzztests houses Go fuzz harnesses for the source -> parser ->
// specializer -> printer pipeline. They guard against panics and hangs on
// arbitrary inputs and check that printed output parses again.
//
// Назначение: прогонять байты через FileSet, парсер, mono и format.
//
// Не делает: запись файлов, выполнение CLI.
package fuzztests
