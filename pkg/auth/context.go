package auth

import "context"

type viewerKey struct{}

// WithViewer stores the authenticated viewer in ctx
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// ViewerFromContext returns the viewer stored by WithViewer
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	viewer, ok := ctx.Value(viewerKey{}).(Viewer)
	return viewer, ok && viewer.ID != ""
}

// ViewerID returns the viewer id or "" for anonymous requests
func ViewerID(ctx context.Context) string {
	viewer, _ := ViewerFromContext(ctx)
	return viewer.ID
}

// IsAdmin reports whether the viewer is the single configured admin identity
func IsAdmin(ctx context.Context, adminID string) bool {
	viewer, ok := ViewerFromContext(ctx)
	return ok && adminID != "" && viewer.ID == adminID
}
