// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard drives a running transfer server:
//  1. [DashboardView] : Server status, shareable address and the list of uploaded files
//  2. [InputView] : Prompt for text to publish or a path on disk to upload
//  3. [QRView] : QR code of the address for scanning from a phone
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the [Msg] union type.
// Server calls that block (start, stop, reading files) run as [tea.Cmd]s and report back through messages,
// and a periodic tick refreshes the file list so uploads from other sources (directory watcher, CLI flags) appear.
//
// Keyboard bindings are listed by the contextual help from charmbracelet/bubbles/help.
package ui
