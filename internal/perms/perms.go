// Package perms defines the file and directory permissions repotrack creates its files with.
package perms

import "os"

const (
	// RegularFile is used for files holding nothing sensitive, such as the configuration file and logs.
	RegularFile os.FileMode = 0o644

	// SecureFile is used for the database and response cache, which hold password hashes and provider responses.
	SecureFile os.FileMode = 0o600
)

const (
	// RegularDir is used for directories readable by everyone.
	RegularDir os.FileMode = 0o755

	// SecureDir is used for directories created to hold secure files.
	SecureDir os.FileMode = 0o700
)
