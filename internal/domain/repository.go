package domain

import "time"

// Repository is a remote repository tracked by at least one collection.
// The (Name, Owner, Provider) tuple is unique.
type Repository struct {
	ID       string
	Name     string
	Owner    string
	Provider Provider

	// LastCommitAt is the date of the most recent commit observed upstream, nil until first observed.
	LastCommitAt *time.Time

	// LastReleaseAt is the date of the most recent release observed upstream, nil until first observed.
	LastReleaseAt *time.Time

	CreatedAt time.Time
}

// FullName returns the "owner/name" form of the repository.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
