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

package core

import (
	"time"

	"platform-building-block/core/model"
	"platform-building-block/driven/storage"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// admCreateRole creates an organization role granting the named permissions.
// The role name must exist in the startup loaded hierarchy. Permission
// objects missing in the organization are created, grants links never cross
// tenants.
func (app *application) admCreateRole(principal model.Principal, orgID string, name string, permissions []string) (*model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionMembersManage)
	if err != nil {
		return nil, err
	}

	rank, known := app.hierarchy.Rank(name)
	if !known {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeRole, &logutils.FieldArgs{"name": name, "hierarchy": app.hierarchy.Version()})
	}

	now := time.Now().UTC()
	role := model.Object{ID: uuid.NewString(), OrganizationID: orgID, Type: model.ObjectTypeRole,
		Subtype: "role", Name: name, Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{"hierarchy": rank, "global": app.hierarchy.IsGlobal(name)},
		CreatedBy:        principal.ID, DateCreated: now}

	err = app.schemas.Validate(role.Type, role.Subtype, role.CustomProperties)
	if err != nil {
		return nil, err
	}

	transaction := func(context storage.TransactionContext) error {
		existing, err := app.storage.FindObjectByTypeName(context, orgID, model.ObjectTypeRole, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.ErrorData(logutils.StatusInvalid, model.TypeRole, &logutils.FieldArgs{"org_id": orgID, "name": name, "existing": true})
		}

		err = app.storage.InsertObject(context, role)
		if err != nil {
			return err
		}

		for _, permission := range permissions {
			target, err := app.findOrCreatePermission(context, orgID, permission, principal.ID)
			if err != nil {
				return err
			}

			grant := model.Link{ID: uuid.NewString(), OrganizationID: orgID, FromObjectID: role.ID,
				ToObjectID: target.ID, Type: model.LinkTypeGrants, DateCreated: now}
			err = app.storage.InsertLink(context, grant)
			if err != nil {
				return err
			}
		}
		return nil
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionCreate, model.TypeRole, &logutils.FieldArgs{"name": name}, err)
	}

	app.audit.record(orgID, role.ID, model.ActionTypeCreate, principal.ID,
		map[string]interface{}{"type": model.ObjectTypeRole, "permissions": permissions})
	return &role, nil
}

func (app *application) findOrCreatePermission(context storage.TransactionContext, orgID string, name string, createdBy string) (*model.Object, error) {
	existing, err := app.storage.FindObjectByTypeName(context, orgID, model.ObjectTypePermission, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	permission := model.Object{ID: uuid.NewString(), OrganizationID: orgID, Type: model.ObjectTypePermission,
		Subtype: "permission", Name: name, Status: model.ObjectStatusActive,
		CreatedBy: createdBy, DateCreated: time.Now().UTC()}
	err = app.storage.InsertObject(context, permission)
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (app *application) admGetRoles(principal model.Principal, orgID string) ([]model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionMembersManage)
	if err != nil {
		return nil, err
	}
	return app.storage.FindObjects(nil, orgID, model.ObjectTypeRole, nil, nil)
}

// admSetMembership assigns a role to a principal in an organization,
// creating or updating the membership record. A non global actor may only
// assign roles their own role outranks.
func (app *application) admSetMembership(principal model.Principal, orgID string, memberID string, roleID string, status string) (*model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionMembersManage)
	if err != nil {
		return nil, err
	}
	if !validMembershipStatus(status) {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeMembership, &logutils.FieldArgs{"status": status})
	}

	role, err := app.findRole(orgID, roleID)
	if err != nil {
		return nil, err
	}

	err = app.checkOutranks(principal, orgID, role)
	if err != nil {
		return nil, err
	}

	var membership *model.Object
	transaction := func(context storage.TransactionContext) error {
		now := time.Now().UTC()

		existing, err := app.storage.FindMembershipObject(context, orgID, memberID)
		if err != nil {
			return err
		}
		if existing == nil {
			created := model.Object{ID: uuid.NewString(), OrganizationID: orgID, Type: model.ObjectTypeMember,
				Subtype: "member", Name: memberID, Status: model.ObjectStatusActive,
				CustomProperties: map[string]interface{}{model.PropertyRoleID: role.ID, model.PropertyStatus: status},
				CreatedBy:        principal.ID, DateCreated: now}
			membership = &created
			return app.storage.InsertObject(context, created)
		}

		existing.MergeProperties(map[string]interface{}{model.PropertyRoleID: role.ID, model.PropertyStatus: status})
		existing.DateUpdated = &now
		membership = existing
		return app.storage.UpdateObject(context, *existing)
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeMembership, &logutils.FieldArgs{"org_id": orgID, "principal": memberID}, err)
	}

	app.audit.record(orgID, membership.ID, model.ActionTypeUpdate, principal.ID,
		map[string]interface{}{"role_id": role.ID, "status": status})
	return membership, nil
}

func (app *application) admGetMembers(principal model.Principal, orgID string) ([]model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionMembersManage)
	if err != nil {
		return nil, err
	}
	return app.storage.FindObjects(nil, orgID, model.ObjectTypeMember, nil, nil)
}

// admRevokeMembership deactivates a membership record. Memberships are never
// physically removed, the record stays for the audit trail.
func (app *application) admRevokeMembership(principal model.Principal, orgID string, memberID string) error {
	err := app.canPerform(principal, orgID, model.PermissionMembersManage)
	if err != nil {
		return err
	}

	existing, err := app.storage.FindMembershipObject(nil, orgID, memberID)
	if err != nil {
		return err
	}
	if existing == nil {
		return &model.NotFoundError{DataType: string(model.TypeMembership), ID: memberID}
	}

	now := time.Now().UTC()
	existing.MergeProperties(map[string]interface{}{model.PropertyStatus: model.MembershipStatusInactive})
	existing.Status = model.ObjectStatusInactive
	existing.DateUpdated = &now

	err = app.storage.UpdateObject(nil, *existing)
	if err != nil {
		return err
	}

	app.audit.record(orgID, existing.ID, model.ActionTypeStatusChange, principal.ID,
		map[string]interface{}{"to": model.MembershipStatusInactive})
	return nil
}

// findRole resolves a role id in the organization, falling back to the
// system tenant's shared roles
func (app *application) findRole(orgID string, roleID string) (*model.Object, error) {
	role, err := app.storage.FindObject(nil, orgID, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil && orgID != model.SystemOrgID {
		role, err = app.storage.FindObject(nil, model.SystemOrgID, roleID)
		if err != nil {
			return nil, err
		}
	}
	if role == nil || role.Type != model.ObjectTypeRole {
		return nil, &model.NotFoundError{DataType: string(model.TypeRole), ID: roleID}
	}
	return role, nil
}

// checkOutranks verifies the actor's own role is strictly senior to the
// role being assigned. Global principals skip the check.
func (app *application) checkOutranks(principal model.Principal, orgID string, role *model.Object) error {
	global, err := app.evaluator.HasGlobalRole(principal)
	if err != nil {
		return err
	}
	if global {
		return nil
	}

	actorMembership, err := app.storage.FindMembershipObject(nil, orgID, principal.ID)
	if err != nil {
		return err
	}
	if actorMembership == nil {
		return &model.NoMembershipError{OrganizationID: orgID, PrincipalID: principal.ID}
	}
	membership, err := model.MembershipFromObject(*actorMembership)
	if err != nil {
		return err
	}

	actorRole, err := app.findRole(orgID, membership.RoleID)
	if err != nil {
		return err
	}

	//role objects are named by their hierarchy position
	if !app.hierarchy.Outranks(actorRole.Name, role.Name) {
		return &model.ForbiddenError{PrincipalID: principal.ID, OrganizationID: orgID, Permission: model.PermissionMembersManage}
	}
	return nil
}

func validMembershipStatus(status string) bool {
	switch status {
	case model.MembershipStatusActive, model.MembershipStatusPending, model.MembershipStatusInactive:
		return true
	}
	return false
}
