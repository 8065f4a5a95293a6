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
	"platform-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// TranslationSource loads the translated values for a set of keys in one
// locale within one tenant. One call per tenant tier keeps the resolver's
// query count bound to the number of distinct keys, not objects.
type TranslationSource interface {
	FindTranslations(orgID string, keys []string, locale string) (map[string]string, error)
}

// Translator substitutes translation keys on objects. A key with no
// translation for the requested locale comes back unmodified - the key
// itself in rendered output is the missing-translation signal, never an
// empty string or a hardcoded fallback.
type Translator struct {
	source TranslationSource
}

// NewTranslator creates a translator over the given source
func NewTranslator(source TranslationSource) *Translator {
	return &Translator{source: source}
}

// ResolveObject replaces the translation keyed fields of one object
func (t *Translator) ResolveObject(object model.Object, locale string) (model.Object, error) {
	resolved, err := t.ResolveBatch([]model.Object{object}, locale)
	if err != nil {
		return object, err
	}
	return resolved[0], nil
}

// ResolveBatch replaces the translation keyed fields of a sequence of
// objects. Lookups are batched by distinct key: one source call for the
// objects' tenant, one for the system tenant covering the misses.
func (t *Translator) ResolveBatch(objects []model.Object, locale string) ([]model.Object, error) {
	if len(objects) == 0 || locale == "" {
		return objects, nil
	}

	keys := collectKeys(objects)
	if len(keys) == 0 {
		return objects, nil
	}

	values, err := t.lookupValues(objects[0].OrganizationID, keys, locale)
	if err != nil {
		return nil, err
	}

	resolved := make([]model.Object, len(objects))
	for i, object := range objects {
		resolved[i] = substitute(object, values)
	}
	return resolved, nil
}

func (t *Translator) lookupValues(orgID string, keys []string, locale string) (map[string]string, error) {
	values, err := t.source.FindTranslations(orgID, keys, locale)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTranslation, &logutils.FieldArgs{"org_id": orgID, "locale": locale}, err)
	}
	if values == nil {
		values = map[string]string{}
	}

	// fall back to the system tenant's seeded translations for the misses
	if orgID != model.SystemOrgID {
		missing := make([]string, 0)
		for _, key := range keys {
			if _, ok := values[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			systemValues, err := t.source.FindTranslations(model.SystemOrgID, missing, locale)
			if err != nil {
				return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTranslation, &logutils.FieldArgs{"org_id": model.SystemOrgID, "locale": locale}, err)
			}
			for key, value := range systemValues {
				values[key] = value
			}
		}
	}

	return values, nil
}

// collectKeys gathers the distinct translation keys of the candidate fields:
// Name, Description and customProperties entries keyed by the Key suffix
// convention
func collectKeys(objects []model.Object) []string {
	seen := make(map[string]bool)
	keys := make([]string, 0)
	add := func(value string) {
		if model.IsTranslationKey(value) && !seen[value] {
			seen[value] = true
			keys = append(keys, value)
		}
	}

	for _, object := range objects {
		add(object.Name)
		if object.Description != nil {
			add(*object.Description)
		}
		for key, value := range object.CustomProperties {
			if !model.IsTranslatableProperty(key) {
				continue
			}
			if text, ok := value.(string); ok {
				add(text)
			}
		}
	}
	return keys
}

func substitute(object model.Object, values map[string]string) model.Object {
	if value, ok := values[object.Name]; ok {
		object.Name = value
	}
	if object.Description != nil {
		if value, ok := values[*object.Description]; ok {
			description := value
			object.Description = &description
		}
	}
	if len(object.CustomProperties) > 0 {
		properties := make(map[string]interface{}, len(object.CustomProperties))
		for key, value := range object.CustomProperties {
			properties[key] = value
			if !model.IsTranslatableProperty(key) {
				continue
			}
			if text, ok := value.(string); ok {
				if translated, found := values[text]; found {
					properties[key] = translated
				}
			}
		}
		object.CustomProperties = properties
	}
	return object
}
