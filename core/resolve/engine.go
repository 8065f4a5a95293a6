// Copyright 2025 The Platform Building Block Authors.
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

// Package resolve implements the cascading resolution used across the
// platform: the precedence engine walking an ordered scope chain and the
// translation resolver substituting locale keyed string fields.
package resolve

import (
	"platform-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// LookupFunc answers whether one scope defines an explicit value for a key.
// It is a plain lookup, never a recursive call back into the engine - the
// walk is bounded by the chain length the caller built.
type LookupFunc func(scope model.ScopeRef, key string) (interface{}, bool, error)

// Resolve walks the chain from most specific to least specific and returns
// the first scope's value for the key. The chain order is fixed and total:
// the search stops at the first scope that defines the key regardless of
// whether a more general scope also defines it. An exhausted chain is a
// NoDefaultError - a missing system default seed, surfaced loudly.
func Resolve(key string, chain []model.ScopeRef, lookup LookupFunc) (*model.Resolved, error) {
	if key == "" {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeConfigKey, nil)
	}

	for _, scope := range chain {
		value, defined, err := lookup(scope, key)
		if err != nil {
			return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeConfigKey, &logutils.FieldArgs{"key": key, "scope": scope.String()}, err)
		}
		if !defined {
			continue
		}
		return &model.Resolved{Key: key, Value: value, Scope: scope}, nil
	}

	return nil, &model.NoDefaultError{Key: key}
}
