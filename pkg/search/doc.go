// Package search drives the letter search and its pagination.
//
// # Overview
//
// A search reads the filter controls of the page, posts them to the archive
// and splices the returned HTML fragments back into the page. The package is
// split along the same lines as the page scripts it replaces:
//
//   - Controller: issues searches and dispatches user commands
//   - Presenter: writes results and pagination into the view and snapshots
//     every rendered page into history
//   - PageCursor: owns the active page indicator and steps between pages
//     inside [1, last page]
//
// All mutable state (last page, active page, request sequence number and the
// criteria of the rendered search) lives in a Session instead of globals, so
// several independent sessions can coexist and be tested in isolation.
//
// # Fresh and page-navigation searches
//
// A search for page 0 is a fresh search. The server answers it with new
// pagination markup and a page count; both pagination widgets receive the
// markup and page 1 becomes active. A search for page N > 0 reuses the
// pagination already on the page and only moves the active indicator.
//
// # Out of order responses
//
// Every search takes a new sequence number before its request goes out. A
// response that arrives after a newer search was issued is discarded, so the
// view always shows the last requested page.
//
// # History
//
// Rendering a page replaces, never pushes, the current history entry with a
// Snapshot holding the result, the top pagination markup, the page count,
// the page and the criteria. HandlePopState restores such a snapshot.
//
// # Usage
//
//	view, _ := client.FetchPage(ctx, "/letters/")
//	ctrl := search.NewController(client, view, filter.NewReader(view), nav, tab)
//	outcome, err := ctrl.HandleSearchSubmit(ctx)
//	outcome, err = ctrl.Next(ctx)
package search
