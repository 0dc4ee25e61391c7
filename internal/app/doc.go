// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the two execution modes: a batch run over a
// mission file set and a long-running HTTP planning service. Both are
// decoupled from any specific entrypoint like a CLI.
package app
