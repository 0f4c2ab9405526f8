package models

// BookInput carries the writable book fields and their constraints.
type BookInput struct {
	Title  string `json:"title" validate:"notblank,max=150"`
	Author string `json:"author" validate:"notblank,max=150"`
	ISBN   string `json:"isbn" validate:"notblank,isbn10"`
}

// UserInput carries the writable user fields and their constraints.
// Password is the plaintext; empty means "unchanged" on update.
type UserInput struct {
	Name     string `json:"name" validate:"notblank,max=150"`
	Email    string `json:"email" validate:"notblank,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,maxbytes=72"`
}
