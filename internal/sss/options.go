package sss

import (
	"fmt"
	"runtime"

	"sss-go/internal/dedupe"
	"sss-go/internal/organize"
)

// Options tune both flows. Zero values select the defaults.
type Options struct {
	Recursive bool

	// Dedupe flow.
	Policy        dedupe.Policy
	Algorithm     dedupe.Algorithm
	ChunkSize     int
	Workers       int
	OnConflict    dedupe.CollisionPolicy
	TargetDirName string

	// Organize flow.
	OutDirName string
	DateSource organize.DateSource
}

// Default output directory names, created inside the scanned root.
const (
	DefaultTargetDirName = "_duplicates"
	DefaultOutDirName    = "_by_date"
)

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = dedupe.DefaultPolicy
	}
	if o.Algorithm == "" {
		o.Algorithm = dedupe.SHA256
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = dedupe.DefaultChunkSize
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.OnConflict == "" {
		o.OnConflict = dedupe.CollisionRename
	}
	if o.TargetDirName == "" {
		o.TargetDirName = DefaultTargetDirName
	}
	if o.OutDirName == "" {
		o.OutDirName = DefaultOutDirName
	}
	if o.DateSource == nil {
		o.DateSource = organize.ModTimeDateSource{}
	}
	return o
}

func (o Options) validate() error {
	if _, err := dedupe.ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if _, err := dedupe.ParseCollisionPolicy(string(o.OnConflict)); err != nil {
		return err
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", dedupe.ErrInvalidArgument)
	}
	return nil
}
