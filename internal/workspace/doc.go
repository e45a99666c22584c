// Package workspace describes the directory that holds one recording's
// artifacts: the fixed file names every stage reads and writes, an advisory
// lock that keeps two runs from interleaving writes, and helpers that turn
// absent inputs into missing-input errors naming the file.
package workspace
