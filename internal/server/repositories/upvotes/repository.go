// Package upvotes stores the (account, post) upvote markers. The storage
// layer guarantees at most one marker per pair.
package upvotes

import "context"

type Repository interface {
	Exists(ctx context.Context, userID, postID string) (bool, error)
	// Create inserts the marker. A marker that already exists yields
	// common.ErrAlreadyExists; a missing post yields common.ErrorNotFound.
	Create(ctx context.Context, userID, postID string) error
	// Delete removes the marker and reports whether a row was removed.
	Delete(ctx context.Context, userID, postID string) (bool, error)
}
