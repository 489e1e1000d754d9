package main

import (
	"fmt"
	"regexp"

	"github.com/codincodee/asyncnet"
)

// buildPredicate admits reports matching include (when set) and not
// matching exclude (when set). With neither set it returns nil, which the
// server treats as accept-all.
func buildPredicate(include, exclude string) (asyncnet.Predicate, error) {
	if include == "" && exclude == "" {
		return nil, nil
	}

	var inc, exc *regexp.Regexp
	var err error
	if include != "" {
		if inc, err = regexp.Compile(include); err != nil {
			return nil, fmt.Errorf("include filter: %w", err)
		}
	}
	if exclude != "" {
		if exc, err = regexp.Compile(exclude); err != nil {
			return nil, fmt.Errorf("exclude filter: %w", err)
		}
	}

	return func(r asyncnet.Report) bool {
		if inc != nil && !inc.Match(r.Payload) {
			return false
		}
		return exc == nil || !exc.Match(r.Payload)
	}, nil
}
