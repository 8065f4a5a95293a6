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

func TestIsTranslationKey(t *testing.T) {
	assert.True(t, IsTranslationKey("catalog.product.tshirt-blue.name"))
	assert.True(t, IsTranslationKey("system.templates.default-email.label"))

	assert.False(t, IsTranslationKey("Blue T-Shirt"))
	assert.False(t, IsTranslationKey("catalog.product"))
	assert.False(t, IsTranslationKey(""))
	assert.False(t, IsTranslationKey("Catalog.Product.Tshirt.Name"))
}

func TestIsTranslatableProperty(t *testing.T) {
	assert.True(t, IsTranslatableProperty("labelKey"))
	assert.True(t, IsTranslatableProperty("subjectKey"))

	assert.False(t, IsTranslatableProperty("bodyHtml"))
	assert.False(t, IsTranslatableProperty("value"))
}
