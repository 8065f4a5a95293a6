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

// Package access implements the permission evaluator: role hierarchy and
// per organization membership layered on top of the object store, with a
// global role bypass evaluated before any organization scoped lookup.
package access

import (
	"platform-building-block/core/model"
	"platform-building-block/utils"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Storage is the slice of the object store the evaluator reads. Evaluation
// for one organization only ever reads that organization's membership and
// role objects plus the system tenant's shared roles - a principal's
// permissions in one organization never influence another.
type Storage interface {
	FindMembershipObject(orgID string, principalID string) (*model.Object, error)
	FindObject(orgID string, id string) (*model.Object, error)
	FindObjectByTypeName(orgID string, objectType string, name string) (*model.Object, error)
	FindLinksFrom(orgID string, fromObjectID string, linkType string) ([]model.Link, error)
}

// Evaluator answers whether a principal may perform an action in an
// organization
type Evaluator struct {
	storage   Storage
	hierarchy *model.RoleHierarchy
}

// NewEvaluator creates a permission evaluator over the given storage and
// the startup loaded role hierarchy
func NewEvaluator(storage Storage, hierarchy *model.RoleHierarchy) *Evaluator {
	return &Evaluator{storage: storage, hierarchy: hierarchy}
}

// CanPerform resolves whether the principal may perform the named permission
// in the organization. "Not permitted" is a valid boolean outcome, never an
// error; the only error cases are structural - a principal with neither a
// global role nor a membership record should not be asked about at all.
//
// The global bypass is evaluated first: a principal holding a global role
// is allowed everything in every organization without consulting membership.
func (e *Evaluator) CanPerform(principal model.Principal, orgID string, permission string) (bool, error) {
	if permission == "" {
		return false, errors.ErrorData(logutils.StatusMissing, model.TypePermission, nil)
	}

	global, err := e.hasGlobalRole(principal)
	if err != nil {
		return false, err
	}
	if global {
		return true, nil
	}

	membership, err := e.findMembership(orgID, principal.ID)
	if err != nil {
		return false, err
	}
	if membership == nil {
		return false, &model.NoMembershipError{OrganizationID: orgID, PrincipalID: principal.ID}
	}
	if membership.Status != model.MembershipStatusActive {
		return false, nil
	}

	permissions, err := e.rolePermissions(orgID, membership.RoleID)
	if err != nil {
		return false, err
	}

	return utils.Contains(permissions, permission), nil
}

// HasMembership says whether the principal holds any membership record in
// the organization, regardless of status
func (e *Evaluator) HasMembership(orgID string, principalID string) (bool, error) {
	membership, err := e.findMembership(orgID, principalID)
	if err != nil {
		return false, err
	}
	return membership != nil, nil
}

// Outranks says whether role a is strictly more senior than role b in the
// loaded hierarchy
func (e *Evaluator) Outranks(a string, b string) bool {
	return e.hierarchy.Outranks(a, b)
}

// HasGlobalRole says whether the principal holds a global role, by claim or
// by a system tenant principal record
func (e *Evaluator) HasGlobalRole(principal model.Principal) (bool, error) {
	return e.hasGlobalRole(principal)
}

// hasGlobalRole checks the bypass: a role held on the principal directly.
// The claim carried role wins; otherwise the system tenant may hold a
// principal object recording one.
func (e *Evaluator) hasGlobalRole(principal model.Principal) (bool, error) {
	if principal.GlobalRole != nil {
		return e.hierarchy.IsGlobal(*principal.GlobalRole), nil
	}

	object, err := e.storage.FindObjectByTypeName(model.SystemOrgID, model.ObjectTypePrincipal, principal.ID)
	if err != nil {
		return false, errors.WrapErrorAction(logutils.ActionFind, model.TypePrincipal, &logutils.FieldArgs{"id": principal.ID}, err)
	}
	if object == nil || object.Status != model.ObjectStatusActive {
		return false, nil
	}

	role, ok := object.PropertyString(model.PropertyGlobalRole)
	if !ok {
		return false, nil
	}
	return e.hierarchy.IsGlobal(role), nil
}

func (e *Evaluator) findMembership(orgID string, principalID string) (*model.Membership, error) {
	object, err := e.storage.FindMembershipObject(orgID, principalID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeMembership, &logutils.FieldArgs{"org_id": orgID, "principal": principalID}, err)
	}
	if object == nil {
		return nil, nil
	}
	return model.MembershipFromObject(*object)
}

// rolePermissions gives the union of permission names granted to the role.
// Roles may live in the asked organization or be shared from the system
// tenant; grants links are read in the role's own tenant.
func (e *Evaluator) rolePermissions(orgID string, roleID string) ([]string, error) {
	roleOrgID := orgID
	role, err := e.storage.FindObject(orgID, roleID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeRole, &logutils.FieldArgs{"org_id": orgID, "id": roleID}, err)
	}
	if role == nil {
		roleOrgID = model.SystemOrgID
		role, err = e.storage.FindObject(model.SystemOrgID, roleID)
		if err != nil {
			return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeRole, &logutils.FieldArgs{"org_id": model.SystemOrgID, "id": roleID}, err)
		}
	}
	if role == nil || role.Type != model.ObjectTypeRole {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeRole, &logutils.FieldArgs{"id": roleID})
	}

	grants, err := e.storage.FindLinksFrom(roleOrgID, role.ID, model.LinkTypeGrants)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLink, &logutils.FieldArgs{"role_id": role.ID}, err)
	}

	permissions := make([]string, 0, len(grants))
	for _, grant := range grants {
		permission, err := e.storage.FindObject(roleOrgID, grant.ToObjectID)
		if err != nil {
			return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypePermission, &logutils.FieldArgs{"id": grant.ToObjectID}, err)
		}
		if permission == nil || permission.Type != model.ObjectTypePermission {
			continue
		}
		permissions = append(permissions, permission.Name)
	}
	return permissions, nil
}
