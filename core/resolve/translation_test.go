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

// fakeSource keys translations by orgID then locale then key
type fakeSource struct {
	values map[string]map[string]map[string]string
	calls  int
}

func (s *fakeSource) FindTranslations(orgID string, keys []string, locale string) (map[string]string, error) {
	s.calls++
	result := map[string]string{}
	byLocale, ok := s.values[orgID]
	if !ok {
		return result, nil
	}
	byKey, ok := byLocale[locale]
	if !ok {
		return result, nil
	}
	for _, key := range keys {
		if value, found := byKey[key]; found {
			result[key] = value
		}
	}
	return result, nil
}

func TestResolveObjectSubstitutes(t *testing.T) {
	source := &fakeSource{values: map[string]map[string]map[string]string{
		"org1": {"de": {"catalog.product.tshirt.name": "Blaues T-Shirt"}},
	}}
	translator := NewTranslator(source)

	object := model.Object{OrganizationID: "org1", Name: "catalog.product.tshirt.name"}
	resolved, err := translator.ResolveObject(object, "de")
	assert.NoError(t, err)
	assert.Equal(t, "Blaues T-Shirt", resolved.Name)
}

func TestResolveObjectIdentityOnMiss(t *testing.T) {
	translator := NewTranslator(&fakeSource{})

	//a key with no translation comes back unmodified, never empty
	object := model.Object{OrganizationID: "org1", Name: "catalog.product.tshirt.name"}
	resolved, err := translator.ResolveObject(object, "fr")
	assert.NoError(t, err)
	assert.Equal(t, "catalog.product.tshirt.name", resolved.Name)
}

func TestResolveObjectPlainTextUntouched(t *testing.T) {
	source := &fakeSource{}
	translator := NewTranslator(source)

	object := model.Object{OrganizationID: "org1", Name: "Blue T-Shirt"}
	resolved, err := translator.ResolveObject(object, "de")
	assert.NoError(t, err)
	assert.Equal(t, "Blue T-Shirt", resolved.Name)
	//nothing key shaped, no lookup at all
	assert.Equal(t, 0, source.calls)
}

func TestResolveBatchSystemFallback(t *testing.T) {
	source := &fakeSource{values: map[string]map[string]map[string]string{
		"org1":   {"en": {"catalog.product.tshirt.name": "Org T-Shirt"}},
		"system": {"en": {"system.templates.default-email.label": "Email"}},
	}}
	translator := NewTranslator(source)

	objects := []model.Object{
		{OrganizationID: "org1", Name: "catalog.product.tshirt.name"},
		{OrganizationID: "org1", Name: "system.templates.default-email.label"},
	}
	resolved, err := translator.ResolveBatch(objects, "en")
	assert.NoError(t, err)
	assert.Equal(t, "Org T-Shirt", resolved[0].Name)
	assert.Equal(t, "Email", resolved[1].Name)
	//one tenant call plus one system call for the misses
	assert.Equal(t, 2, source.calls)
}

func TestResolveBatchCustomProperties(t *testing.T) {
	source := &fakeSource{values: map[string]map[string]map[string]string{
		"org1": {"en": {"system.templates.default-email.label": "Email"}},
	}}
	translator := NewTranslator(source)

	description := "system.templates.default-email.label"
	object := model.Object{OrganizationID: "org1", Name: "Invoice mail", Description: &description,
		CustomProperties: map[string]interface{}{
			"labelKey": "system.templates.default-email.label",
			"bodyHtml": "<p>system.templates.default-email.label</p>",
		}}

	resolved, err := translator.ResolveObject(object, "en")
	assert.NoError(t, err)
	assert.Equal(t, "Email", *resolved.Description)
	assert.Equal(t, "Email", resolved.CustomProperties["labelKey"])
	//only Key suffixed properties are substituted, stored payloads stay opaque
	assert.Equal(t, "<p>system.templates.default-email.label</p>", resolved.CustomProperties["bodyHtml"])
	//the input object is not mutated
	assert.Equal(t, "system.templates.default-email.label", object.CustomProperties["labelKey"])
}

func TestResolveBatchEmptyLocale(t *testing.T) {
	source := &fakeSource{}
	translator := NewTranslator(source)

	objects := []model.Object{{OrganizationID: "org1", Name: "catalog.product.tshirt.name"}}
	resolved, err := translator.ResolveBatch(objects, "")
	assert.NoError(t, err)
	assert.Equal(t, objects, resolved)
	assert.Equal(t, 0, source.calls)
}
