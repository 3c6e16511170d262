// Copyright 2025 go-lghost Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ghost

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every *ConfigError. Configuration errors are
	// only returned by New.
	ErrConfig = errors.New("lghost: invalid configuration")

	// ErrResource is matched by every *ResourceError.
	ErrResource = errors.New("lghost: resource unavailable")

	// ErrFrameMismatch is returned when a frame does not have the format or
	// dimensions the filter was built for.
	ErrFrameMismatch = errors.New("lghost: frame does not match filter")
)

// ConfigError reports a rejected construction parameter.
type ConfigError struct {
	// Param names the offending parameter ("mode", "shift", "planes", ...).
	Param string
	// Index is the element index within a list parameter, or -1.
	Index  int
	Reason string
}

func configErrorf(param string, index int, format string, args ...any) *ConfigError {
	return &ConfigError{Param: param, Index: index, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("lghost: %s[%d]: %s", e.Param, e.Index, e.Reason)
	}
	return fmt.Sprintf("lghost: %s: %s", e.Param, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ResourceError reports that a worker could not obtain its scratch row.
// It fails the frame being processed; other workers are unaffected.
type ResourceError struct {
	Worker int
	Reason string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("lghost: worker %d: %s", e.Worker, e.Reason)
}

// Is reports whether target is ErrResource.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResource
}
