package config

// Log messages shared by the web handlers.
const (
	ErrLoadingPosts  = "Error loading posts"
	ErrCreatingPost  = "Error adding post"
	ErrUpdatingPost  = "Error updating post"
	ErrDeletingPost  = "Error deleting post"
	ErrOpeningEditor = "Error opening post editor"
	ErrSettingDraft  = "Error updating draft"
	ErrRenderingPage = "Error rendering page"
)
