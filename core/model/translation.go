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
	"regexp"
	"strings"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeTranslation ...
	TypeTranslation logutils.MessageDataType = "translation"
)

// translationKeyPattern matches the domain.type.identifier.field shape of a
// translation key. A key appearing unmodified in rendered output is the
// signal that a translation is missing, and stays detectable by this
// pattern.
var translationKeyPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[\w-]+\.[\w-]+$`)

// translationPropertySuffix marks the customProperties entries eligible for
// substitution (labelKey, subjectKey, ...). Nothing else is touched so that
// opaque payloads such as stored HTML are never rewritten.
const translationPropertySuffix = "Key"

// IsTranslationKey says whether the value has the shape of a translation key
func IsTranslationKey(value string) bool {
	return translationKeyPattern.MatchString(value)
}

// IsTranslatableProperty says whether the customProperties key is a
// substitution candidate by naming convention
func IsTranslatableProperty(key string) bool {
	return strings.HasSuffix(key, translationPropertySuffix)
}
