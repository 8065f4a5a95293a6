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
	"net/http"
	"testing"

	"platform-building-block/core/model"

	"github.com/rokwire/core-auth-library-go/v3/tokenauth"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, errorStatus(&model.NotFoundError{DataType: "object", ID: "x"}))
	assert.Equal(t, http.StatusNotFound, errorStatus(&model.NoDefaultError{Key: "billing.tax.mode"}))
	assert.Equal(t, http.StatusForbidden, errorStatus(&model.ForbiddenError{PrincipalID: "p", OrganizationID: "o", Permission: "objects.write"}))
	assert.Equal(t, http.StatusForbidden, errorStatus(&model.NoMembershipError{OrganizationID: "o", PrincipalID: "p"}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(&model.SchemaViolationError{ObjectType: "contact", Subtype: "person"}))
	assert.Equal(t, http.StatusBadRequest, errorStatus(&model.SchemaNotRegisteredError{ObjectType: "contact", Subtype: "droid"}))
	assert.Equal(t, http.StatusConflict, errorStatus(&model.ConflictError{FromObjectID: "x", LinkType: "includes_template"}))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(assert.AnError))
}

func TestPrincipalFromClaims(t *testing.T) {
	claims := &tokenauth.Claims{}
	claims.Subject = "principal1"

	principal := principalFromClaims(claims)
	assert.Equal(t, "principal1", principal.ID)
	assert.Nil(t, principal.GlobalRole)

	claims.System = true
	principal = principalFromClaims(claims)
	assert.NotNil(t, principal.GlobalRole)
	assert.Equal(t, model.RoleSystemAdmin, *principal.GlobalRole)
}
