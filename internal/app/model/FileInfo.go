package model

// AudioFile references one discovered audio file. AbsPath is handed to the
// backend, RelPath is the forward-slash path relative to the input root used
// to label the output block.
type AudioFile struct {
	AbsPath string
	RelPath string
}
