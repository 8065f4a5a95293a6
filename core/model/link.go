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
	//TypeLink ...
	TypeLink logutils.MessageDataType = "link"
	//TypeLinkReplacement ...
	TypeLinkReplacement logutils.MessageDataType = "link replacement"
)

// Link types - the relationship verbs of the graph
const (
	LinkTypeIncludesTemplate string = "includes_template"
	LinkTypeTranslates       string = "translates"
	LinkTypeRegisteredFor    string = "registered_for"
	LinkTypeGrants           string = "grants"
	LinkTypeConfigures       string = "configures"
)

// Link property keys
const (
	LinkPropertyDisplayOrder string = "display_order"
	LinkPropertyIsRequired   string = "is_required"
	LinkPropertyFieldName    string = "field_name"
)

// duplicateLinkTypes lists the link types which admit ordered duplicates
// between the same two endpoints. Everything else is unique on
// (from, to, type).
var duplicateLinkTypes = map[string]bool{
	LinkTypeIncludesTemplate: true,
}

// LinkTypeAllowsDuplicates says whether the given link type admits more than
// one link between the same two endpoints
func LinkTypeAllowsDuplicates(linkType string) bool {
	return duplicateLinkTypes[linkType]
}

// Link represents a directed typed edge between two objects within one
// organization. Cross tenant links are rejected at the store boundary.
type Link struct {
	ID             string
	OrganizationID string
	FromObjectID   string
	ToObjectID     string
	Type           string

	Properties map[string]interface{}

	DateCreated time.Time
}

func (l Link) String() string {
	return fmt.Sprintf("[ID:%s\tOrg:%s\t%s -%s-> %s]", l.ID, l.OrganizationID, l.FromObjectID, l.Type, l.ToObjectID)
}

// DisplayOrder reads the display_order edge property, -1 when absent
func (l Link) DisplayOrder() int {
	if l.Properties == nil {
		return -1
	}
	switch value := l.Properties[LinkPropertyDisplayOrder].(type) {
	case int:
		return value
	case int32:
		return int(value)
	case int64:
		return int(value)
	case float64:
		return int(value)
	}
	return -1
}

// LinkMember is one entry of a composite replacement - the ordered list of
// parts a composite object consists of after the edit
type LinkMember struct {
	ToObjectID string
	Properties map[string]interface{}
}
