package publish

import "context"

// Publisher uploads a document artifact to the shared hosting location, makes
// it readable by anyone holding the link, and returns the durable share link.
type Publisher interface {
	Publish(ctx context.Context, filename string, content []byte) (string, error)
	// CheckAccess verifies the destination folder is reachable with the
	// configured credentials. Used as a startup probe.
	CheckAccess(ctx context.Context) error
}
