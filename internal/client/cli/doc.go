// Package cli provides the GophForum command-line client.
//
// It wires configuration, local storage and API services behind a cobra
// command tree. Every invocation opens the local database lazily, restores
// the stored session tokens and closes everything when the command returns.
//
// Commands:
//   - signup, login, logout, me, avatar, ping, version
//   - communities list | create | show
//   - posts list | create | show | upvote
//   - comments list | create
//
// Build the tree with New and run it with (*CLI).Execute.
package cli
