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
	"encoding/json"
	"io"
	"net/http"

	"platform-building-block/core"
	"platform-building-block/core/model"

	"github.com/gorilla/mux"
	"github.com/rokwire/core-auth-library-go/v3/tokenauth"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// ServicesApisHandler handles the rest APIs implementation
type ServicesApisHandler struct {
	coreAPIs *core.CoreAPIs
}

func (h ServicesApisHandler) getVersion(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	return l.HTTPResponseSuccessMessage(h.coreAPIs.Services.SerGetVersion())
}

func (h ServicesApisHandler) getObject(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	id := params["id"]

	var locale *string
	if value := r.URL.Query().Get("locale"); value != "" {
		locale = &value
	}

	object, err := h.coreAPIs.Services.SerGetObject(principalFromClaims(claims), orgID, id, locale)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectToResponse(*object))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h ServicesApisHandler) getObjects(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	query := r.URL.Query()
	objectType := query.Get("type")
	if objectType == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeQueryParam, logutils.StringArgs("type"), nil, http.StatusBadRequest, false)
	}
	var subtype *string
	if value := query.Get("subtype"); value != "" {
		subtype = &value
	}
	statuses := query["status"]
	var locale *string
	if value := query.Get("locale"); value != "" {
		locale = &value
	}

	objects, err := h.coreAPIs.Services.SerGetObjects(principalFromClaims(claims), orgID, objectType, subtype, statuses, locale)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectsToResponse(objects))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

type createObjectRequest struct {
	Type             string                 `json:"type"`
	Subtype          string                 `json:"subtype"`
	Name             string                 `json:"name"`
	Description      *string                `json:"description,omitempty"`
	Status           string                 `json:"status,omitempty"`
	Locale           *string                `json:"locale,omitempty"`
	CustomProperties map[string]interface{} `json:"custom_properties,omitempty"`
}

func (h ServicesApisHandler) createObject(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData createObjectRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}

	item := model.Object{OrganizationID: orgID, Type: requestData.Type, Subtype: requestData.Subtype,
		Name: requestData.Name, Description: requestData.Description, Status: requestData.Status,
		Locale: requestData.Locale, CustomProperties: requestData.CustomProperties}

	object, exceeded, err := h.coreAPIs.Services.SerCreateObject(principalFromClaims(claims), item)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionCreate, model.TypeObject, nil, err, errorStatus(err), true)
	}
	if exceeded != nil {
		data, err := json.Marshal(limitExceededToResponse(*exceeded))
		if err != nil {
			return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeLimit, nil, err, http.StatusInternalServerError, false)
		}
		return logs.HTTPResponse{ResponseCode: http.StatusConflict,
			Headers: map[string][]string{"Content-Type": {"application/json; charset=utf-8"}}, Body: data}
	}

	data, err := json.Marshal(objectToResponse(*object))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

type updateObjectRequest struct {
	Name             *string                `json:"name,omitempty"`
	Description      *string                `json:"description,omitempty"`
	CustomProperties map[string]interface{} `json:"custom_properties,omitempty"`
}

func (h ServicesApisHandler) updateObject(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	id := params["id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData updateObjectRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}

	object, err := h.coreAPIs.Services.SerUpdateObject(principalFromClaims(claims), orgID, id,
		requestData.Name, requestData.Description, requestData.CustomProperties)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUpdate, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectToResponse(*object))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

type setObjectStatusRequest struct {
	Status string `json:"status"`
}

func (h ServicesApisHandler) setObjectStatus(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	id := params["id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData setObjectStatusRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}

	object, err := h.coreAPIs.Services.SerSetObjectStatus(principalFromClaims(claims), orgID, id, requestData.Status)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUpdate, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectToResponse(*object))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h ServicesApisHandler) getObjectHistory(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	id := params["id"]

	actions, err := h.coreAPIs.Services.SerGetObjectHistory(principalFromClaims(claims), orgID, id)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeAction, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(actionsToResponse(actions))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeAction, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h ServicesApisHandler) getLinks(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	id := params["id"]
	linkType := params["link-type"]

	links, err := h.coreAPIs.Services.SerGetLinks(principalFromClaims(claims), orgID, id, linkType)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeLink, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(linksToResponse(links))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeLink, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

type createLinkRequest struct {
	FromObjectID string                 `json:"from_object_id"`
	ToObjectID   string                 `json:"to_object_id"`
	Type         string                 `json:"type"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func (h ServicesApisHandler) createLink(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData createLinkRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}

	item := model.Link{OrganizationID: orgID, FromObjectID: requestData.FromObjectID,
		ToObjectID: requestData.ToObjectID, Type: requestData.Type, Properties: requestData.Properties}

	link, err := h.coreAPIs.Services.SerCreateLink(principalFromClaims(claims), item)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionCreate, model.TypeLink, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(linkToResponse(*link))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeLink, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

type replaceLinksRequest struct {
	Members []struct {
		ToObjectID string                 `json:"to_object_id"`
		Properties map[string]interface{} `json:"properties,omitempty"`
	} `json:"members"`
}

func (h ServicesApisHandler) replaceLinks(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	id := params["id"]
	linkType := params["link-type"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData replaceLinksRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}

	members := make([]model.LinkMember, len(requestData.Members))
	for i, member := range requestData.Members {
		members[i] = model.LinkMember{ToObjectID: member.ToObjectID, Properties: member.Properties}
	}

	links, err := h.coreAPIs.Services.SerReplaceLinks(principalFromClaims(claims), orgID, id, linkType, members)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUpdate, model.TypeLinkReplacement, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(linksToResponse(links))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeLink, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

// chainOptionsFromQuery reads the optional resolution scopes off the query
// string
func chainOptionsFromQuery(r *http.Request) model.ChainOptions {
	query := r.URL.Query()
	var options model.ChainOptions
	if value := query.Get("product"); value != "" {
		options.ProductID = &value
	}
	if value := query.Get("checkout"); value != "" {
		options.CheckoutID = &value
	}
	if value := query.Get("domain"); value != "" {
		options.Domain = &value
	}
	return options
}

func (h ServicesApisHandler) resolveConfig(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	key := params["key"]

	resolved, err := h.coreAPIs.Services.SerResolveConfig(principalFromClaims(claims), orgID, key, chainOptionsFromQuery(r))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeConfigKey, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(resolvedToResponse(*resolved))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeConfigKey, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h ServicesApisHandler) resolveTemplates(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	var outputType *string
	if value := r.URL.Query().Get("output"); value != "" {
		outputType = &value
	}

	templates, err := h.coreAPIs.Services.SerResolveTemplates(principalFromClaims(claims), orgID, outputType, chainOptionsFromQuery(r))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectsToResponse(templates))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

// NewServicesApisHandler creates new rest services Handler instance
func NewServicesApisHandler(coreAPIs *core.CoreAPIs) ServicesApisHandler {
	return ServicesApisHandler{coreAPIs: coreAPIs}
}
