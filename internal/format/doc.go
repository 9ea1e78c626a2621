// Package format resolves formatter annotations left on syntax trees by
// rewrites, turning elastic trivia into concrete whitespace that matches the
// surrounding code.
//
// Назначение: довести синтезированные узлы до вида, совместимого с исходным файлом.
// Не делает: полного переформатирования файла, IO.
// Зависимости: internal/syntax.
package format
