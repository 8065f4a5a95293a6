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

package resolve

import (
	"testing"

	"platform-building-block/core/model"

	"github.com/stretchr/testify/assert"
)

func testChain() []model.ScopeRef {
	return []model.ScopeRef{
		{OrganizationID: "org1", Type: model.ObjectTypeProduct, ID: "product1"},
		{OrganizationID: "org1", Type: model.ObjectTypeCheckout, ID: "checkout1"},
		{OrganizationID: "org1", Type: model.ObjectTypeOrganization, ID: "profile1"},
		{OrganizationID: model.SystemOrgID, Type: model.ObjectTypeOrganization, ID: model.SystemOrgID},
	}
}

// mapLookup answers from a scope id keyed table of values
func mapLookup(values map[string]map[string]interface{}) LookupFunc {
	return func(scope model.ScopeRef, key string) (interface{}, bool, error) {
		scoped, ok := values[scope.ID]
		if !ok {
			return nil, false, nil
		}
		value, ok := scoped[key]
		return value, ok, nil
	}
}

func TestResolveFirstScopeWins(t *testing.T) {
	lookup := mapLookup(map[string]map[string]interface{}{
		"checkout1": {"config.tax_behavior": "inclusive"},
		"profile1":  {"config.tax_behavior": "exempt"},
		"system":    {"config.tax_behavior": "exclusive"},
	})

	resolved, err := Resolve("config.tax_behavior", testChain(), lookup)
	assert.NoError(t, err)
	assert.Equal(t, "inclusive", resolved.Value)
	assert.Equal(t, "checkout1", resolved.Scope.ID)
}

func TestResolveFallsThroughToSystem(t *testing.T) {
	lookup := mapLookup(map[string]map[string]interface{}{
		"system": {"config.tax_behavior": "exclusive"},
	})

	resolved, err := Resolve("config.tax_behavior", testChain(), lookup)
	assert.NoError(t, err)
	assert.Equal(t, "exclusive", resolved.Value)
	assert.Equal(t, model.SystemOrgID, resolved.Scope.OrganizationID)
}

func TestResolveDeterministic(t *testing.T) {
	lookup := mapLookup(map[string]map[string]interface{}{
		"product1": {"limit.max_contacts": int64(5)},
		"system":   {"limit.max_contacts": int64(100)},
	})

	first, err := Resolve("limit.max_contacts", testChain(), lookup)
	assert.NoError(t, err)
	second, err := Resolve("limit.max_contacts", testChain(), lookup)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "product1", first.Scope.ID)
}

func TestResolveNoDefault(t *testing.T) {
	_, err := Resolve("config.unseeded", testChain(), mapLookup(nil))
	assert.Error(t, err)
	assert.True(t, model.IsNoDefault(err))
}

func TestResolveEmptyKey(t *testing.T) {
	_, err := Resolve("", testChain(), mapLookup(nil))
	assert.Error(t, err)
	assert.False(t, model.IsNoDefault(err))
}

func TestResolveLookupError(t *testing.T) {
	lookup := func(scope model.ScopeRef, key string) (interface{}, bool, error) {
		return nil, false, assert.AnError
	}

	_, err := Resolve("config.tax_behavior", testChain(), lookup)
	assert.Error(t, err)
	assert.False(t, model.IsNoDefault(err))
}
