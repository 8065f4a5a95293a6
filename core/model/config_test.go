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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitKeyForType(t *testing.T) {
	key, ok := LimitKeyForType(ObjectTypeContact)
	assert.True(t, ok)
	assert.Equal(t, LimitKeyContacts, key)

	key, ok = LimitKeyForType(ObjectTypeTemplate)
	assert.True(t, ok)
	assert.Equal(t, LimitKeyTemplates, key)

	_, ok = LimitKeyForType(ObjectTypeInvoice)
	assert.False(t, ok)
}

func TestTemplateSetRefValue(t *testing.T) {
	ref := TemplateSetRef{OrganizationID: "org1", ObjectID: "set1"}

	parsed, ok := TemplateSetRefFromValue(ref.Value())
	assert.True(t, ok)
	assert.Equal(t, ref, *parsed)
}

func TestTemplateSetRefFromValueInvalid(t *testing.T) {
	_, ok := TemplateSetRefFromValue("set1")
	assert.False(t, ok)

	_, ok = TemplateSetRefFromValue(map[string]interface{}{"org_id": "org1"})
	assert.False(t, ok)

	_, ok = TemplateSetRefFromValue(map[string]interface{}{"org_id": "org1", "object_id": 7})
	assert.False(t, ok)
}
