// Package main hosts the podcut CLI entrypoint and command graph.
//
// Each pipeline stage is exposed as its own command taking the workspace
// directory, and `run` chains them. The command context resolves
// configuration, the lexicon, the logger and the snapshot store once so the
// subcommands only choose which stages to execute and how to present the
// results.
//
// Keep this package thin: behaviour belongs in internal/pipeline and the
// packages it drives.
package main
