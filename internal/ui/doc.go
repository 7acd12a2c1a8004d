// Package ui contains the Bubble Tea program for the SIMS inventory client.
// The Model type focuses on message orchestration, while dedicated helpers
// own key handling, tab navigation, edit drafts, and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function. Key presses are translated into the exported domain messages
//     (LoginMsg, OpenTabMsg, SubmitEditMsg, ...) and applied in the same step.
//   - Work that talks to the service (login, list refreshes, create calls)
//     runs as tea.Cmd closures queued on the internal/ui/command bus. The
//     closures capture only values, borrow the connection through the guard,
//     and return a message; they never touch the model.
//
// State ownership:
//   - The login lifecycle lives in internal/session, open tabs and the
//     navigation history in internal/workspace, and the staged draft in
//     internal/edit.
//   - Shelf and item caches live in internal/state and are updated by the
//     dispatcher when refresh results arrive. Per-tab rows, cursor and
//     viewport are kept in internal/ui/state.List and rebuilt from the caches.
//
// Periodic refresh:
//   - An optional backend.Watcher emits ticks; Update waits for them and
//     refreshes whatever the current tab shows.
package ui
