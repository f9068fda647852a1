package model

import (
	"fmt"
	"strings"
)

// Result is the outcome of transcribing one file: either recognized text or
// the error that replaced it.
type Result struct {
	File AudioFile
	Text string
	Err  error
}

// Success builds a result carrying recognized text.
func Success(file AudioFile, text string) Result {
	return Result{File: file, Text: strings.TrimSpace(text)}
}

// Failure builds a result carrying the error that prevented transcription.
func Failure(file AudioFile, err error) Result {
	return Result{File: file, Err: err}
}

// Succeeded reports whether the backend produced text.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// BlockText is the text written under the file header: the transcription, or
// an error placeholder embedding the failure message.
func (r Result) BlockText() string {
	if r.Err != nil {
		return ErrorPlaceholder(r.Err)
	}
	return r.Text
}

// ErrorPlaceholder renders err as an inline output marker.
func ErrorPlaceholder(err error) string {
	return fmt.Sprintf("[ERROR: %v]", err)
}
