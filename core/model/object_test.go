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

func TestMergeProperties(t *testing.T) {
	object := Object{CustomProperties: map[string]interface{}{
		"email": "old@example.com",
		"tags":  map[string]interface{}{"a": 1, "b": 2},
	}}

	object.MergeProperties(map[string]interface{}{
		"email": "new@example.com",
		"tags":  map[string]interface{}{"c": 3},
	})

	assert.Equal(t, "new@example.com", object.CustomProperties["email"])
	//a patched composite value replaces the stored one wholesale
	assert.Equal(t, map[string]interface{}{"c": 3}, object.CustomProperties["tags"])
}

func TestMergePropertiesNilDeletes(t *testing.T) {
	object := Object{CustomProperties: map[string]interface{}{"email": "old@example.com", "phone": "123"}}

	object.MergeProperties(map[string]interface{}{"phone": nil})

	_, exists := object.CustomProperties["phone"]
	assert.False(t, exists)
	assert.Equal(t, "old@example.com", object.CustomProperties["email"])
}

func TestMergePropertiesIntoEmpty(t *testing.T) {
	object := Object{}

	object.MergeProperties(map[string]interface{}{"email": "new@example.com"})

	assert.Equal(t, "new@example.com", object.CustomProperties["email"])
}

func TestPropertyString(t *testing.T) {
	object := Object{CustomProperties: map[string]interface{}{"role_id": "role1", "count": 3}}

	value, ok := object.PropertyString("role_id")
	assert.True(t, ok)
	assert.Equal(t, "role1", value)

	_, ok = object.PropertyString("count")
	assert.False(t, ok)

	_, ok = Object{}.PropertyString("role_id")
	assert.False(t, ok)
}

func TestIsSingleton(t *testing.T) {
	assert.True(t, IsSingleton(ObjectTypeConfig, SubtypeTaxSettings))
	assert.True(t, IsSingleton(ObjectTypeOrganization, SubtypeProfile))
	assert.True(t, IsSingleton(ObjectTypeLicense, SubtypeLicenseActive))
	assert.True(t, IsSingleton(ObjectTypeTemplateSet, SubtypeSetDefault))

	assert.False(t, IsSingleton(ObjectTypeContact, "person"))
	assert.False(t, IsSingleton(ObjectTypeTemplateSet, "custom"))
}
