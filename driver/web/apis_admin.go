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

// AdminApisHandler handles the admin rest APIs implementation
type AdminApisHandler struct {
	coreAPIs *core.CoreAPIs
}

type createRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (h AdminApisHandler) createRole(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData createRoleRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}

	role, err := h.coreAPIs.Administration.AdmCreateRole(principalFromClaims(claims), orgID, requestData.Name, requestData.Permissions)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionCreate, model.TypeRole, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectToResponse(*role))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeRole, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h AdminApisHandler) getRoles(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	roles, err := h.coreAPIs.Administration.AdmGetRoles(principalFromClaims(claims), orgID)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeRole, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectsToResponse(roles))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeRole, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

type setMembershipRequest struct {
	RoleID string `json:"role_id"`
	Status string `json:"status"`
}

func (h AdminApisHandler) setMembership(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	principalID := params["principal-id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData setMembershipRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}
	if requestData.Status == "" {
		requestData.Status = model.MembershipStatusActive
	}

	membership, err := h.coreAPIs.Administration.AdmSetMembership(principalFromClaims(claims), orgID, principalID, requestData.RoleID, requestData.Status)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUpdate, model.TypeMembership, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectToResponse(*membership))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeMembership, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h AdminApisHandler) getMembers(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]

	members, err := h.coreAPIs.Administration.AdmGetMembers(principalFromClaims(claims), orgID)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeMembership, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectsToResponse(members))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeMembership, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h AdminApisHandler) revokeMembership(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["org-id"]
	principalID := params["principal-id"]

	err := h.coreAPIs.Administration.AdmRevokeMembership(principalFromClaims(claims), orgID, principalID)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionDelete, model.TypeMembership, nil, err, errorStatus(err), true)
	}
	return l.HTTPResponseSuccess()
}

// NewAdminApisHandler creates new admin rest Handler instance
func NewAdminApisHandler(coreAPIs *core.CoreAPIs) AdminApisHandler {
	return AdminApisHandler{coreAPIs: coreAPIs}
}
