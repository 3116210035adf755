// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package op tracks the outcome of individual units of work, such as redacting one payload.
package op

import (
	"fmt"
	"path/filepath"
)

// Status describes the result of an op run
type Status string

const (
	// Success means the op completed and produced a result.
	Success Status = "success"
	// Fail means that the op did not complete.
	Fail Status = "fail"
	// Skip means the op was not attempted.
	Skip Status = "skip"
)

// Op holds the result of a Runner.
type Op struct {
	Identifier string `json:"op"`
	Result     []byte `json:"-"`
	ErrString  string `json:"error,omitempty"` // this simplifies json marshaling
	Error      error  `json:"-"`
	Status     Status `json:"status"`
}

// Runner runs one unit of work.
type Runner interface {
	ID() string
	Run() Op
}

// New builds an Op, recording err's message alongside it.
func New(id string, result []byte, status Status, err error) Op {
	o := Op{
		Identifier: id,
		Result:     result,
		Error:      err,
		Status:     status,
	}
	if err != nil {
		o.ErrString = err.Error()
	}
	return o
}

// Exclude takes a slice of matcher strings and a slice of runners. If any of the runner IDs match the exclude
// according to filepath.Match() then it will not be present in the returned slice.
func Exclude(excludes []string, runners []Runner) ([]Runner, error) {
	newRunners := make([]Runner, 0, len(runners))
	for _, r := range runners {
		match, err := matchAny(excludes, r.ID())
		if err != nil {
			return newRunners, err
		}
		if !match {
			newRunners = append(newRunners, r)
		}
	}
	return newRunners, nil
}

// Select takes a slice of matcher strings and a slice of runners. The only runners returned will be those
// matching the given select strings according to filepath.Match()
func Select(selects []string, runners []Runner) ([]Runner, error) {
	newRunners := make([]Runner, 0, len(runners))
	for _, r := range runners {
		match, err := matchAny(selects, r.ID())
		if err != nil {
			return newRunners, err
		}
		if match {
			newRunners = append(newRunners, r)
		}
	}
	return newRunners, nil
}

func matchAny(matchers []string, id string) (bool, error) {
	for _, matcher := range matchers {
		match, err := filepath.Match(matcher, id)
		if err != nil {
			return false, fmt.Errorf("filter error: '%s' for '%s'", err, matcher)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// StatusCounts takes a slice of ops and returns a map containing sums of each Status
func StatusCounts(ops []Op) (map[Status]int, error) {
	statuses := make(map[Status]int)
	for _, o := range ops {
		if o.Status == "" {
			return nil, fmt.Errorf("unable to build Statuses map, op not run: op=%s", o.Identifier)
		}
		statuses[o.Status]++
	}
	return statuses, nil
}
