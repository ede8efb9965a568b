package ports

import "context"

// PatchStore persists encoded circuit tokens for share links.
// Only the token is stored; the circuit itself is never persisted in any other form.
type PatchStore interface {
	// Save stores token under id, overwriting any previous value.
	Save(ctx context.Context, id string, token string) error

	// Load retrieves the token stored under id.
	// Returns domain.ErrPatchNotFound if the id does not exist.
	Load(ctx context.Context, id string) (string, error)

	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored ids.
	List(ctx context.Context) ([]string, error)
}
