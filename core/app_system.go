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

// Seeded entity names. Config and translation objects are addressed by
// these, the chain's system terminus depends on them existing.
const (
	seedTemplateEmailLabel   = "system.templates.default-email.label"
	seedTemplateEmailSubject = "system.templates.default-email.subject"
	seedTemplatePDFLabel     = "system.templates.default-pdf.label"
	seedTemplateSetLabel     = "system.templates.default-set.label"
	seedLocale               = "en"
)

// seedLimits are the system default caps terminating limit resolution
var seedLimits = map[string]int64{
	model.LimitKeyContacts:  100,
	model.LimitKeyTemplates: 20,
	model.LimitKeyEvents:    50,
}

// seedTranslations are the base locale values for the seeded keys
var seedTranslations = map[string]string{
	seedTemplateEmailLabel:   "Email",
	seedTemplateEmailSubject: "Your documents",
	seedTemplatePDFLabel:     "PDF document",
	seedTemplateSetLabel:     "Default set",
}

// seedRolePermissions maps hierarchy role names to the permissions their
// seeded system role grants. Roles not listed get read access only.
var seedRolePermissions = map[string][]string{
	"owner":   {model.PermissionObjectsRead, model.PermissionObjectsWrite, model.PermissionMembersManage, model.PermissionSystemManage},
	"admin":   {model.PermissionObjectsRead, model.PermissionObjectsWrite, model.PermissionMembersManage},
	"manager": {model.PermissionObjectsRead, model.PermissionObjectsWrite},
}

// sysSeed makes the system tenant whole: profile, permissions, shared roles
// with their grants, the default template set, system default configs and
// limits, and base translations. Safe to run on every startup - everything
// already present is left alone.
func (app *application) sysSeed(principal model.Principal) error {
	err := app.canPerform(principal, model.SystemOrgID, model.PermissionSystemManage)
	if err != nil {
		return err
	}

	var profileID string
	transaction := func(context storage.TransactionContext) error {
		profile, err := app.seedSystemProfile(context, principal.ID)
		if err != nil {
			return err
		}
		profileID = profile.ID

		err = app.seedRoles(context, principal.ID)
		if err != nil {
			return err
		}

		setRef, err := app.seedTemplateSet(context, principal.ID)
		if err != nil {
			return err
		}

		err = app.seedConfigs(context, principal.ID, *setRef)
		if err != nil {
			return err
		}

		return app.seedTranslationObjects(context, principal.ID)
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return errors.WrapErrorAction("seeding", model.TypeObject, &logutils.FieldArgs{"org_id": model.SystemOrgID}, err)
	}

	app.audit.record(model.SystemOrgID, profileID, model.ActionTypeSeed, principal.ID, nil)
	return nil
}

func (app *application) seedSystemProfile(context storage.TransactionContext, createdBy string) (*model.Object, error) {
	existing, err := app.storage.FindObjectByTypeName(context, model.SystemOrgID, model.ObjectTypeOrganization, model.SystemOrgID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	profile := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
		Type: model.ObjectTypeOrganization, Subtype: model.SubtypeProfile, Name: model.SystemOrgID,
		Status: model.ObjectStatusActive, CreatedBy: createdBy, DateCreated: time.Now().UTC()}
	err = app.storage.InsertObject(context, profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (app *application) seedRoles(context storage.TransactionContext, createdBy string) error {
	now := time.Now().UTC()

	for _, name := range app.hierarchy.Roles() {
		existing, err := app.storage.FindObjectByTypeName(context, model.SystemOrgID, model.ObjectTypeRole, name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		rank, _ := app.hierarchy.Rank(name)
		role := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
			Type: model.ObjectTypeRole, Subtype: "role", Name: name, Status: model.ObjectStatusActive,
			CustomProperties: map[string]interface{}{"hierarchy": rank, "global": app.hierarchy.IsGlobal(name)},
			CreatedBy:        createdBy, DateCreated: now}
		err = app.storage.InsertObject(context, role)
		if err != nil {
			return err
		}

		permissions, listed := seedRolePermissions[name]
		if !listed {
			permissions = []string{model.PermissionObjectsRead}
		}
		for _, permission := range permissions {
			target, err := app.findOrCreatePermission(context, model.SystemOrgID, permission, createdBy)
			if err != nil {
				return err
			}
			grant := model.Link{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
				FromObjectID: role.ID, ToObjectID: target.ID, Type: model.LinkTypeGrants, DateCreated: now}
			err = app.storage.InsertLink(context, grant)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// seedTemplateSet creates the system default template set and its ordered
// members
func (app *application) seedTemplateSet(context storage.TransactionContext, createdBy string) (*model.TemplateSetRef, error) {
	existing, err := app.storage.FindObjectByTypeName(context, model.SystemOrgID, model.ObjectTypeTemplateSet, seedTemplateSetLabel)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &model.TemplateSetRef{OrganizationID: model.SystemOrgID, ObjectID: existing.ID}, nil
	}

	now := time.Now().UTC()

	email := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
		Type: model.ObjectTypeTemplate, Subtype: "email", Name: seedTemplateEmailLabel,
		Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{"subjectKey": seedTemplateEmailSubject,
			"bodyHtml": "<p>{{content}}</p>", "labelKey": seedTemplateEmailLabel},
		CreatedBy: createdBy, DateCreated: now}
	err = app.storage.InsertObject(context, email)
	if err != nil {
		return nil, err
	}

	pdf := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
		Type: model.ObjectTypeTemplate, Subtype: "pdf", Name: seedTemplatePDFLabel,
		Status:           model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{"labelKey": seedTemplatePDFLabel},
		CreatedBy:        createdBy, DateCreated: now}
	err = app.storage.InsertObject(context, pdf)
	if err != nil {
		return nil, err
	}

	set := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
		Type: model.ObjectTypeTemplateSet, Subtype: model.SubtypeSetDefault, Name: seedTemplateSetLabel,
		Status:           model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{"labelKey": seedTemplateSetLabel},
		CreatedBy:        createdBy, DateCreated: now}
	err = app.storage.InsertObject(context, set)
	if err != nil {
		return nil, err
	}

	for order, member := range []model.Object{email, pdf} {
		include := model.Link{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
			FromObjectID: set.ID, ToObjectID: member.ID, Type: model.LinkTypeIncludesTemplate,
			Properties:  map[string]interface{}{model.LinkPropertyDisplayOrder: order},
			DateCreated: now}
		err = app.storage.InsertLink(context, include)
		if err != nil {
			return nil, err
		}
	}

	return &model.TemplateSetRef{OrganizationID: model.SystemOrgID, ObjectID: set.ID}, nil
}

// seedConfigs writes the system default config objects: the template set
// reference, the tax behavior and the limits. These terminate every
// resolution chain.
func (app *application) seedConfigs(context storage.TransactionContext, createdBy string, setRef model.TemplateSetRef) error {
	values := map[string]interface{}{
		model.ConfigKeyTemplateSet: setRef.Value(),
		model.ConfigKeyTaxBehavior: "exclusive",
	}
	for key, limit := range seedLimits {
		values[key] = limit
	}

	now := time.Now().UTC()
	for key, value := range values {
		existing, err := app.storage.FindObjectByTypeName(context, model.SystemOrgID, model.ObjectTypeConfig, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		config := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
			Type: model.ObjectTypeConfig, Subtype: "override", Name: key,
			Status:           model.ObjectStatusActive,
			CustomProperties: map[string]interface{}{model.PropertyConfigValue: value},
			CreatedBy:        createdBy, DateCreated: now}
		err = app.storage.InsertObject(context, config)
		if err != nil {
			return err
		}
	}
	return nil
}

func (app *application) seedTranslationObjects(context storage.TransactionContext, createdBy string) error {
	now := time.Now().UTC()
	locale := seedLocale

	for key, value := range seedTranslations {
		existing, err := app.storage.FindObjectByTypeName(context, model.SystemOrgID, model.ObjectTypeTranslation, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		translation := model.Object{ID: uuid.NewString(), OrganizationID: model.SystemOrgID,
			Type: model.ObjectTypeTranslation, Subtype: "string", Name: key, Locale: &locale,
			Status:           model.ObjectStatusActive,
			CustomProperties: map[string]interface{}{model.PropertyConfigValue: value},
			CreatedBy:        createdBy, DateCreated: now}
		err = app.storage.InsertObject(context, translation)
		if err != nil {
			return err
		}
	}
	return nil
}

// sysCreateOrganization provisions a new tenant: the organization profile
// object and its active license
func (app *application) sysCreateOrganization(principal model.Principal, name string, plan string) (*model.Object, error) {
	err := app.canPerform(principal, model.SystemOrgID, model.PermissionSystemManage)
	if err != nil {
		return nil, err
	}
	if plan == "" {
		plan = "free"
	}

	orgID := uuid.NewString()
	now := time.Now().UTC()

	profile := model.Object{ID: uuid.NewString(), OrganizationID: orgID,
		Type: model.ObjectTypeOrganization, Subtype: model.SubtypeProfile, Name: name,
		Status: model.ObjectStatusActive, CreatedBy: principal.ID, DateCreated: now}
	license := model.Object{ID: uuid.NewString(), OrganizationID: orgID,
		Type: model.ObjectTypeLicense, Subtype: model.SubtypeLicenseActive, Name: plan,
		Status:           model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{"plan": plan},
		CreatedBy:        principal.ID, DateCreated: now}

	err = app.schemas.Validate(license.Type, license.Subtype, license.CustomProperties)
	if err != nil {
		return nil, err
	}

	transaction := func(context storage.TransactionContext) error {
		err := app.storage.InsertObject(context, profile)
		if err != nil {
			return err
		}
		return app.storage.InsertObject(context, license)
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionCreate, model.TypeObject, &logutils.FieldArgs{"type": model.ObjectTypeOrganization, "name": name}, err)
	}

	app.audit.record(orgID, profile.ID, model.ActionTypeCreate, principal.ID,
		map[string]interface{}{"type": model.ObjectTypeOrganization, "plan": plan})
	return &profile, nil
}

func (app *application) sysGetOrganizations(principal model.Principal) ([]model.Object, error) {
	err := app.canPerform(principal, model.SystemOrgID, model.PermissionSystemManage)
	if err != nil {
		return nil, err
	}
	return app.storage.FindObjectsByTypeSubtype(model.ObjectTypeOrganization, model.SubtypeProfile)
}
