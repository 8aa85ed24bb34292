package activities

// CommentResult contains the result of publishing a summary comment
type CommentResult struct {
	Posted  bool
	Updated bool
	Message string
}
