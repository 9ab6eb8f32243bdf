// Package shell provides a line-oriented terminal front end for a trim
// session. It stands in for a graphical window: each command maps to a
// button, slider or dialog of a desktop editor.
package shell

// LoadRequest is the argument of the load command.
type LoadRequest struct {
	// Path is the audio file to open.
	Path string `validate:"required"`
}

// PercentRequest is the argument of the start and end commands.
type PercentRequest struct {
	// Value is a slider position.
	Value int `validate:"min=0,max=100"`
}

// ExportRequest holds the optional arguments of the export command.
type ExportRequest struct {
	// Path is the destination file. Empty means the default name.
	Path string
	// Format overrides the format inferred from Path.
	Format string `validate:"omitempty,oneof=mp3 wav ogg flac"`
}
