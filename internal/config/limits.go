package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxContentRefLength bounds the opaque reference into binary
	// storage. Object keys and URLs comfortably fit.
	MaxContentRefLength = 1024
)
