// Package browser implements a breadcrumb-navigable file tree browser over a
// remote repository.
//
// # State Machine
//
// Navigation is modelled as a pure function, [Transition], from a [State]
// and an [Event] to a new State and an [Effect]. Effects describe the one
// fetch the caller must perform next; its outcome is fed back as a
// completion event ([ListingLoaded], [ListingFailed], [ContentLoaded],
// [ContentFailed]). Transition performs no I/O and can be tested without a
// backend or a terminal.
//
// A browser is either in [TreeView], showing one directory listing, or in
// [FileView], showing one file's raw text. The path stack records the
// directories entered from the root; it is updated only after the listing
// for the new path has loaded, so it always names a directory whose listing
// was fetched successfully.
//
// At most one fetch is outstanding. Navigation events that arrive while a
// fetch is in flight are ignored, and completions for a fetch that is no
// longer pending are dropped.
//
// # README Preview
//
// The first time the root listing of an opened repository loads, a file
// named readme.md (any case) is fetched and shown automatically. If that
// fetch fails the listing stays on screen. The preview never fires again
// until the next [Open].
//
// # Driver
//
// [Browser] runs the state machine against a [Backend] synchronously and is
// what the CLI uses. The terminal UI drives [Transition] and [Perform]
// itself so that fetches run as asynchronous commands.
package browser
