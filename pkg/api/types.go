package api

// Request bodies accepted by the API. Response shapes are the model
// types themselves plus the envelopes in pkg/httputil.

// SignupRequest creates an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the authenticated user.
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes the reset flow. The token travels in
// the URL path, not the body.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateUserRequest changes profile fields. Role is honored only on the
// admin route.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
	Role     string `json:"role"`
}

// PostRequest creates or updates a blog post.
type PostRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl"`
}

// AuthorRequest creates or updates a book author.
type AuthorRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl"`
}

// BookRequest creates or updates a book.
type BookRequest struct {
	Title         string `json:"title"`
	AuthorID      string `json:"authorId"`
	Summary       string `json:"summary"`
	CoverURL      string `json:"coverUrl"`
	PublishedYear int    `json:"publishedYear"`
}
