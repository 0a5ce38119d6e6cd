// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives the fuzzy-match confirmation workflow:
//  1. [CandidateListView] : Browse search candidates on the target provider
//  2. [ConfirmView] : Confirm before opening the pick in the music app
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. The chosen track is read back via [Model.Selection] after the
// program exits.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
