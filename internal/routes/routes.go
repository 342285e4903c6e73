// Package routes defines HTTP route patterns for the application.
package routes

const (
	RootPath  = "/"
	IndexPath = "GET /{$}"

	RobotsPath  = "GET /robots.txt"
	ThemeToggle = "POST /theme/toggle"
	EventsPath  = "GET /events"

	// Create form
	OpenCreate   = "POST /posts/new"
	CancelCreate = "POST /posts/new/cancel"
	SubmitCreate = "POST /posts"

	// Edit form
	OpenEdit       = "POST /posts/{id}/edit"
	CancelEdit     = "POST /posts/{id}/edit/cancel"
	SubmitEdit     = "POST /posts/{id}"
	SubmitEditPut  = "PUT /posts/{id}"
	DeletePost     = "POST /posts/{id}/delete"
	DeletePostHTTP = "DELETE /posts/{id}"

	ReloadPosts = "POST /posts/reload"
	Preview     = "POST /partials/preview"
)
