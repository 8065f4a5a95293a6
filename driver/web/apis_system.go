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

	"github.com/rokwire/core-auth-library-go/v3/tokenauth"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// SystemApisHandler handles the system rest APIs implementation
type SystemApisHandler struct {
	coreAPIs *core.CoreAPIs
}

func (h SystemApisHandler) seed(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	err := h.coreAPIs.System.SysSeed(principalFromClaims(claims))
	if err != nil {
		return l.HTTPResponseErrorAction("seeding", model.TypeObject, nil, err, errorStatus(err), true)
	}
	return l.HTTPResponseSuccess()
}

type createOrganizationRequest struct {
	Name string `json:"name"`
	Plan string `json:"plan,omitempty"`
}

func (h SystemApisHandler) createOrganization(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}
	var requestData createOrganizationRequest
	err = json.Unmarshal(body, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, true)
	}
	if requestData.Name == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeRequestBody, logutils.StringArgs("name"), nil, http.StatusBadRequest, false)
	}

	profile, err := h.coreAPIs.System.SysCreateOrganization(principalFromClaims(claims), requestData.Name, requestData.Plan)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionCreate, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectToResponse(*profile))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

func (h SystemApisHandler) getOrganizations(l *logs.Log, r *http.Request, claims *tokenauth.Claims) logs.HTTPResponse {
	organizations, err := h.coreAPIs.System.SysGetOrganizations(principalFromClaims(claims))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionGet, model.TypeObject, nil, err, errorStatus(err), true)
	}

	data, err := json.Marshal(objectsToResponse(organizations))
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionMarshal, model.TypeObject, nil, err, http.StatusInternalServerError, false)
	}
	return l.HTTPResponseSuccessJSON(data)
}

// NewSystemApisHandler creates new system rest Handler instance
func NewSystemApisHandler(coreAPIs *core.CoreAPIs) SystemApisHandler {
	return SystemApisHandler{coreAPIs: coreAPIs}
}
