// Package ui contains the Bubble Tea program that renders the mesh dashboard.
// The Model type focuses on message orchestration, while dedicated helpers own
// navigation, input, rendering, and reaction to pushed state.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Update forwards key presses to the active action form when one is open.
//     Otherwise each tea.Msg is routed through a typed handler registry, so key
//     presses, window sizes, channel events and fired actions are each handled
//     by a focused function.
//   - Navigation helpers (internal/ui/navigation.go) translate keys into tab
//     transitions on the nav.Navigator and cursor movement on the visible tab.
//     Filter helpers (internal/ui/input.go) edit the node quick-find and the
//     log regex without touching the event loop.
//
// State ownership:
//   - Everything the server pushes lives in the dispatcher.Stores: the text
//     regions, the event history, the row pool, the detail panel and the log,
//     slow and failed lists.
//   - The navigator owns the visible tab and the current node; the detail
//     panel reads the current node through it to reject stale updates.
//   - Actions are fired through the internal/ui/command bus, which builds the
//     request path and hands it to the request dispatcher.
//
// Backend interactions:
//   - A backend.Channel streams decoded frames; Update waits for those events
//     one at a time and hands them to applyChannelEvent, so frames are applied
//     strictly in arrival order.
//   - Once the channel fails or closes the model turns inert: the status line
//     says so and later frames are ignored, while navigation and actions keep
//     sending requests.
package ui
