package domain

import "time"

// Collection groups tracked repositories under a name.
// A collection is protected when it was created with a password, in which case
// PasswordHash holds its one-way hash and mutations must present the password.
type Collection struct {
	ID           string
	Name         string
	Protected    bool
	PasswordHash []byte
	CreatedAt    time.Time

	// Repositories is only populated by operations which load the tracked set.
	Repositories []Repository
}
