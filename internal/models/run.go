package models

import (
	"fmt"
	"time"
)

// RunStatus is the terminal outcome of a generation run.
type RunStatus string

const (
	RunSucceeded RunStatus = "success"
	RunFailed    RunStatus = "failed"
)

// GenerationRun records one finished playlist generation.
type GenerationRun struct {
	id           string
	sequence     int
	title        string
	author       string
	outputPath   string
	songCount    int
	status       RunStatus
	errorMessage string
	createdAt    time.Time
	deletedAt    *time.Time
}

// NewGenerationRun creates an unsaved [GenerationRun]. The ID is assigned on create.
func NewGenerationRun(title, author, outputPath string, songCount int, status RunStatus) *GenerationRun {
	return &GenerationRun{
		title:      title,
		author:     author,
		outputPath: outputPath,
		songCount:  songCount,
		status:     status,
		createdAt:  time.Now(),
	}
}

func (r *GenerationRun) ID() string            { return r.id }
func (r *GenerationRun) Sequence() int         { return r.sequence }
func (r *GenerationRun) Title() string         { return r.title }
func (r *GenerationRun) Author() string        { return r.author }
func (r *GenerationRun) OutputPath() string    { return r.outputPath }
func (r *GenerationRun) SongCount() int        { return r.songCount }
func (r *GenerationRun) Status() RunStatus     { return r.status }
func (r *GenerationRun) ErrorMessage() string  { return r.errorMessage }
func (r *GenerationRun) CreatedAt() time.Time  { return r.createdAt }
func (r *GenerationRun) DeletedAt() *time.Time { return r.deletedAt }

func (r *GenerationRun) SetID(id string)            { r.id = id }
func (r *GenerationRun) SetSequence(sequence int)   { r.sequence = sequence }
func (r *GenerationRun) SetErrorMessage(msg string) { r.errorMessage = msg }
func (r *GenerationRun) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *GenerationRun) SetDeletedAt(t *time.Time)  { r.deletedAt = t }

// Validate checks that the run has an output path, a known status and a non-negative song count.
func (r *GenerationRun) Validate() error {
	if r.outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if r.status != RunSucceeded && r.status != RunFailed {
		return fmt.Errorf("invalid status %q", r.status)
	}
	if r.songCount < 0 {
		return fmt.Errorf("song count cannot be negative")
	}
	return nil
}
