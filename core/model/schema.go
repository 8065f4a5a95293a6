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
	"bytes"
	"encoding/json"
	"reflect"
	"sync"

	"golang.org/x/sync/syncmap"
	validator "gopkg.in/go-playground/validator.v9"
)

// SchemaRegistry maps every registered (type, subtype) pair to the closed
// variant struct owning its customProperties shape. Registration happens at
// startup; a write against an unregistered pair is a programming error.
// Validation decodes the open map into the variant struct with unknown
// fields disallowed, then runs the struct's validate tags.
type SchemaRegistry struct {
	schemas *syncmap.Map
	lock    sync.RWMutex

	validate *validator.Validate
}

// NewSchemaRegistry creates an empty schema registry
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: &syncmap.Map{}, validate: validator.New()}
}

// Register binds a variant prototype to a (type, subtype) pair. The
// prototype must be a struct value; its json tags define the closed field
// set and its validate tags the field constraints.
func (r *SchemaRegistry) Register(objectType string, subtype string, prototype interface{}) error {
	if reflect.ValueOf(prototype).Kind() != reflect.Struct {
		return &SchemaViolationError{ObjectType: objectType, Subtype: subtype, Reason: "prototype must be a struct"}
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.schemas.Store(objectType+"/"+subtype, prototype)
	return nil
}

// Registered says whether a schema exists for the pair
func (r *SchemaRegistry) Registered(objectType string, subtype string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.schemas.Load(objectType + "/" + subtype)
	return ok
}

// Validate checks customProperties against the variant schema registered for
// the pair. Unknown keys and tag violations are SchemaViolationError; an
// unregistered pair is SchemaNotRegisteredError.
func (r *SchemaRegistry) Validate(objectType string, subtype string, properties map[string]interface{}) error {
	r.lock.RLock()
	item, ok := r.schemas.Load(objectType + "/" + subtype)
	r.lock.RUnlock()
	if !ok {
		return &SchemaNotRegisteredError{ObjectType: objectType, Subtype: subtype}
	}

	if properties == nil {
		properties = map[string]interface{}{}
	}

	data, err := json.Marshal(properties)
	if err != nil {
		return &SchemaViolationError{ObjectType: objectType, Subtype: subtype, Reason: err.Error()}
	}

	// decode into a fresh instance of the variant with unknown fields rejected
	variant := reflect.New(reflect.TypeOf(item)).Interface()
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	err = decoder.Decode(variant)
	if err != nil {
		return &SchemaViolationError{ObjectType: objectType, Subtype: subtype, Reason: err.Error()}
	}

	err = r.validate.Struct(variant)
	if err != nil {
		return &SchemaViolationError{ObjectType: objectType, Subtype: subtype, Reason: err.Error()}
	}

	return nil
}
