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
	"fmt"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeScopeChain ...
	TypeScopeChain logutils.MessageDataType = "scope chain"
	//TypeConfigKey ...
	TypeConfigKey logutils.MessageDataType = "config key"
	//TypeLimit ...
	TypeLimit logutils.MessageDataType = "limit"
)

// SystemOrgID is the reserved system level tenant. It owns the terminal
// system default scope of every resolution chain and is seeded once at
// startup, never deleted.
const SystemOrgID string = "system"

// Configuration keys resolved through the precedence chain
const (
	ConfigKeyTemplateSet string = "config.template_set"
	ConfigKeyTaxBehavior string = "config.tax_behavior"

	LimitKeyContacts  string = "limit.max_contacts"
	LimitKeyTemplates string = "limit.max_templates"
	LimitKeyEvents    string = "limit.max_events"
)

// limitedObjectTypes maps an object type to the limit key its creation is
// capped by. Types not listed are unlimited.
var limitedObjectTypes = map[string]string{
	ObjectTypeContact:  LimitKeyContacts,
	ObjectTypeTemplate: LimitKeyTemplates,
	ObjectTypeEvent:    LimitKeyEvents,
}

// LimitKeyForType gives the limit key capping creation of the object type
func LimitKeyForType(objectType string) (string, bool) {
	key, ok := limitedObjectTypes[objectType]
	return key, ok
}

// ScopeRef identifies one scope of a resolution chain - an object within a
// tenant. The system default scope references the system organization's
// profile object.
type ScopeRef struct {
	OrganizationID string
	Type           string
	ID             string
}

func (s ScopeRef) String() string {
	return fmt.Sprintf("[%s:%s@%s]", s.Type, s.ID, s.OrganizationID)
}

// Resolved is the outcome of a precedence resolution - the value together
// with the scope that defined it
type Resolved struct {
	Key   string
	Value interface{}
	Scope ScopeRef
}

// ChainOptions carries the optional specific scopes of a canonical
// resolution chain. Nil members mean "scope absent" and are skipped, not
// errors.
type ChainOptions struct {
	ProductID  *string
	CheckoutID *string
	Domain     *string
}

// LimitExceeded is the structured outcome of a resource creation path that
// hit its configured cap. It is an expected recoverable result, not an
// error - callers use it to drive upgrade prompts.
type LimitExceeded struct {
	Key     string
	Current int64
	Limit   int64
	Scope   ScopeRef
}

func (l LimitExceeded) String() string {
	return fmt.Sprintf("[Key:%s\tCurrent:%d\tLimit:%d\tScope:%s]", l.Key, l.Current, l.Limit, l.Scope)
}

// TemplateSetRef is the value shape of the config.template_set key - a
// reference to the set object in its owning organization (the system org for
// the seeded default set)
type TemplateSetRef struct {
	OrganizationID string
	ObjectID       string
}

// TemplateSetRefFromValue parses a resolved config.template_set value
func TemplateSetRefFromValue(value interface{}) (*TemplateSetRef, bool) {
	properties, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	orgID, ok := properties["org_id"].(string)
	if !ok {
		return nil, false
	}
	objectID, ok := properties["object_id"].(string)
	if !ok {
		return nil, false
	}
	return &TemplateSetRef{OrganizationID: orgID, ObjectID: objectID}, true
}

// Value gives the storable form of the reference
func (r TemplateSetRef) Value() map[string]interface{} {
	return map[string]interface{}{"org_id": r.OrganizationID, "object_id": r.ObjectID}
}
