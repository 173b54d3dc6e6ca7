package interfaces

import "context"

// PageRenderer materializes a client-side-rendered page and returns its final
// HTML. Implementations must wait for at least one table element to be
// present before returning, bounded by the context deadline; a timeout
// surfaces as an ordinary error.
type PageRenderer interface {
	RenderPage(ctx context.Context, url string) (string, error)

	// Close releases browser resources
	Close() error
}
