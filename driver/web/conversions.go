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

package web

import (
	"time"

	"platform-building-block/core/model"
)

type objectResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"org_id"`
	Type           string `json:"type"`
	Subtype        string `json:"subtype"`

	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Locale      *string `json:"locale,omitempty"`

	CustomProperties map[string]interface{} `json:"custom_properties,omitempty"`

	CreatedBy   string     `json:"created_by"`
	DateCreated time.Time  `json:"date_created"`
	DateUpdated *time.Time `json:"date_updated,omitempty"`
}

func objectToResponse(item model.Object) objectResponse {
	return objectResponse{ID: item.ID, OrganizationID: item.OrganizationID, Type: item.Type,
		Subtype: item.Subtype, Name: item.Name, Description: item.Description, Status: item.Status,
		Locale: item.Locale, CustomProperties: item.CustomProperties, CreatedBy: item.CreatedBy,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func objectsToResponse(items []model.Object) []objectResponse {
	result := make([]objectResponse, len(items))
	for i, item := range items {
		result[i] = objectToResponse(item)
	}
	return result
}

type linkResponse struct {
	ID           string `json:"id"`
	FromObjectID string `json:"from_object_id"`
	ToObjectID   string `json:"to_object_id"`
	Type         string `json:"type"`

	Properties map[string]interface{} `json:"properties,omitempty"`

	DateCreated time.Time `json:"date_created"`
}

func linkToResponse(item model.Link) linkResponse {
	return linkResponse{ID: item.ID, FromObjectID: item.FromObjectID, ToObjectID: item.ToObjectID,
		Type: item.Type, Properties: item.Properties, DateCreated: item.DateCreated}
}

func linksToResponse(items []model.Link) []linkResponse {
	result := make([]linkResponse, len(items))
	for i, item := range items {
		result[i] = linkToResponse(item)
	}
	return result
}

type actionResponse struct {
	ID       string `json:"id"`
	ObjectID string `json:"object_id"`
	Type     string `json:"type"`

	Data map[string]interface{} `json:"data,omitempty"`

	PerformedBy   string    `json:"performed_by"`
	DatePerformed time.Time `json:"date_performed"`
}

func actionsToResponse(items []model.Action) []actionResponse {
	result := make([]actionResponse, len(items))
	for i, item := range items {
		result[i] = actionResponse{ID: item.ID, ObjectID: item.ObjectID, Type: item.Type,
			Data: item.Data, PerformedBy: item.PerformedBy, DatePerformed: item.DatePerformed}
	}
	return result
}

type resolvedResponse struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`

	ScopeOrgID string `json:"scope_org_id"`
	ScopeType  string `json:"scope_type"`
	ScopeID    string `json:"scope_id"`
}

func resolvedToResponse(item model.Resolved) resolvedResponse {
	return resolvedResponse{Key: item.Key, Value: item.Value, ScopeOrgID: item.Scope.OrganizationID,
		ScopeType: item.Scope.Type, ScopeID: item.Scope.ID}
}

type limitExceededResponse struct {
	Error   string `json:"error"`
	Key     string `json:"key"`
	Current int64  `json:"current"`
	Limit   int64  `json:"limit"`

	ScopeOrgID string `json:"scope_org_id"`
	ScopeType  string `json:"scope_type"`
}

func limitExceededToResponse(item model.LimitExceeded) limitExceededResponse {
	return limitExceededResponse{Error: "limit_exceeded", Key: item.Key, Current: item.Current,
		Limit: item.Limit, ScopeOrgID: item.Scope.OrganizationID, ScopeType: item.Scope.Type}
}
