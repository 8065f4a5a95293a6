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

package storage

import (
	"platform-building-block/core/model"
	"time"
)

type object struct {
	ID             string `bson:"_id"`
	OrgID          string `bson:"org_id"`
	Type           string `bson:"type"`
	Subtype        string `bson:"subtype"`

	Name        string  `bson:"name"`
	Description *string `bson:"description,omitempty"`
	Status      string  `bson:"status"`
	Locale      *string `bson:"locale,omitempty"`

	CustomProperties map[string]interface{} `bson:"custom_properties,omitempty"`

	CreatedBy   string     `bson:"created_by"`
	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated,omitempty"`
}

type link struct {
	ID           string `bson:"_id"`
	OrgID        string `bson:"org_id"`
	FromObjectID string `bson:"from_object_id"`
	ToObjectID   string `bson:"to_object_id"`
	Type         string `bson:"type"`

	Properties map[string]interface{} `bson:"properties,omitempty"`

	DateCreated time.Time `bson:"date_created"`
}

type action struct {
	ID       string `bson:"_id"`
	OrgID    string `bson:"org_id"`
	ObjectID string `bson:"object_id"`
	Type     string `bson:"type"`

	Data map[string]interface{} `bson:"data,omitempty"`

	PerformedBy   string    `bson:"performed_by"`
	DatePerformed time.Time `bson:"date_performed"`
}

type counter struct {
	ID    string `bson:"_id"`
	OrgID string `bson:"org_id"`
	Key   string `bson:"key"`
	Count int64  `bson:"count"`
}

func objectToStorage(item model.Object) object {
	return object{ID: item.ID, OrgID: item.OrganizationID, Type: item.Type, Subtype: item.Subtype,
		Name: item.Name, Description: item.Description, Status: item.Status, Locale: item.Locale,
		CustomProperties: item.CustomProperties, CreatedBy: item.CreatedBy,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func objectFromStorage(item object) model.Object {
	return model.Object{ID: item.ID, OrganizationID: item.OrgID, Type: item.Type, Subtype: item.Subtype,
		Name: item.Name, Description: item.Description, Status: item.Status, Locale: item.Locale,
		CustomProperties: item.CustomProperties, CreatedBy: item.CreatedBy,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func objectsFromStorage(items []object) []model.Object {
	result := make([]model.Object, len(items))
	for i, item := range items {
		result[i] = objectFromStorage(item)
	}
	return result
}

func linkToStorage(item model.Link) link {
	return link{ID: item.ID, OrgID: item.OrganizationID, FromObjectID: item.FromObjectID,
		ToObjectID: item.ToObjectID, Type: item.Type, Properties: item.Properties, DateCreated: item.DateCreated}
}

func linkFromStorage(item link) model.Link {
	return model.Link{ID: item.ID, OrganizationID: item.OrgID, FromObjectID: item.FromObjectID,
		ToObjectID: item.ToObjectID, Type: item.Type, Properties: item.Properties, DateCreated: item.DateCreated}
}

func linksFromStorage(items []link) []model.Link {
	result := make([]model.Link, len(items))
	for i, item := range items {
		result[i] = linkFromStorage(item)
	}
	return result
}

func actionToStorage(item model.Action) action {
	return action{ID: item.ID, OrgID: item.OrganizationID, ObjectID: item.ObjectID, Type: item.Type,
		Data: item.Data, PerformedBy: item.PerformedBy, DatePerformed: item.DatePerformed}
}

func actionFromStorage(item action) model.Action {
	return model.Action{ID: item.ID, OrganizationID: item.OrgID, ObjectID: item.ObjectID, Type: item.Type,
		Data: item.Data, PerformedBy: item.PerformedBy, DatePerformed: item.DatePerformed}
}
