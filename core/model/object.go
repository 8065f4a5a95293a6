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
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeObject ...
	TypeObject logutils.MessageDataType = "object"
	//TypeObjectSchema ...
	TypeObjectSchema logutils.MessageDataType = "object schema"
	//TypeObjectQuery ...
	TypeObjectQuery logutils.MessageDataType = "object query"
	//TypeCounter ...
	TypeCounter logutils.MessageDataType = "counter"
)

// Object types. Every persisted entity in the platform is an Object of one
// of these types, refined by a subtype.
const (
	ObjectTypeContact      string = "contact"
	ObjectTypeInvoice      string = "invoice"
	ObjectTypeEvent        string = "event"
	ObjectTypeTemplate     string = "template"
	ObjectTypeTemplateSet  string = "template_set"
	ObjectTypeTranslation  string = "translation"
	ObjectTypeConfig       string = "config"
	ObjectTypeLicense      string = "license"
	ObjectTypeRole         string = "role"
	ObjectTypePermission   string = "permission"
	ObjectTypeMember       string = "organization_member"
	ObjectTypeOrganization string = "organization"
	ObjectTypePrincipal    string = "principal"
	ObjectTypeProduct      string = "product"
	ObjectTypeCheckout     string = "checkout"
	ObjectTypeDomain       string = "domain"
)

// Object statuses. Objects are soft deleted through a status transition and
// never physically removed.
const (
	ObjectStatusActive   string = "active"
	ObjectStatusDraft    string = "draft"
	ObjectStatusPending  string = "pending"
	ObjectStatusInactive string = "inactive"
	ObjectStatusDeleted  string = "deleted"
)

// Object represents a tenant scoped polymorphic entity - the platform's only
// persisted "thing". Type gives the coarse kind, Subtype the refinement.
// CustomProperties is an open map whose shape is owned by the variant schema
// registered for the (Type, Subtype) pair.
type Object struct {
	ID             string
	OrganizationID string
	Type           string
	Subtype        string

	Name        string
	Description *string
	Status      string
	Locale      *string

	CustomProperties map[string]interface{}

	CreatedBy   string
	DateCreated time.Time
	DateUpdated *time.Time
}

func (o Object) String() string {
	return fmt.Sprintf("[ID:%s\tOrg:%s\tType:%s/%s\tName:%s\tStatus:%s]", o.ID, o.OrganizationID, o.Type, o.Subtype, o.Name, o.Status)
}

// MergeProperties applies a partial customProperties update. The merge is a
// key level replacement at the top of the map - a patched key whose value is
// itself a composite replaces the stored value wholesale, never deep merged.
func (o *Object) MergeProperties(partial map[string]interface{}) {
	if len(partial) == 0 {
		return
	}
	if o.CustomProperties == nil {
		o.CustomProperties = map[string]interface{}{}
	}
	for key, value := range partial {
		if value == nil {
			delete(o.CustomProperties, key)
			continue
		}
		o.CustomProperties[key] = value
	}
}

// PropertyString reads a string valued custom property
func (o Object) PropertyString(key string) (string, bool) {
	if o.CustomProperties == nil {
		return "", false
	}
	value, ok := o.CustomProperties[key].(string)
	return value, ok
}

// singletonPairs lists the (type, subtype) pairs for which at most one object
// may exist per organization. The store rejects a second write.
var singletonPairs = map[string]bool{
	ObjectTypeConfig + "/" + SubtypeTaxSettings:     true,
	ObjectTypeOrganization + "/" + SubtypeProfile:   true,
	ObjectTypeLicense + "/" + SubtypeLicenseActive:  true,
	ObjectTypeTemplateSet + "/" + SubtypeSetDefault: true,
}

// Object subtypes with singleton or special handling
const (
	SubtypeTaxSettings   string = "tax_settings"
	SubtypeProfile       string = "profile"
	SubtypeLicenseActive string = "active"
	SubtypeSetDefault    string = "default"
)

// IsSingleton says whether the (type, subtype) pair is a singleton
// configuration object within an organization
func IsSingleton(objectType string, subtype string) bool {
	return singletonPairs[objectType+"/"+subtype]
}
