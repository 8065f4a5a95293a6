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
	"platform-building-block/core/resolve"
	"platform-building-block/driven/storage"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// replaceRetryDelay is the single backoff before retrying a composite
// replacement that hit an in-flight overlap
const replaceRetryDelay = 50 * time.Millisecond

func (app *application) serGetVersion() string {
	return app.version
}

func (app *application) serGetObject(principal model.Principal, orgID string, id string, locale *string) (*model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsRead)
	if err != nil {
		return nil, err
	}

	object, err := app.storage.FindObject(nil, orgID, id)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, &model.NotFoundError{DataType: string(model.TypeObject), ID: id}
	}

	if locale == nil {
		return object, nil
	}
	translated, err := app.translator.ResolveObject(*object, *locale)
	if err != nil {
		return nil, err
	}
	return &translated, nil
}

func (app *application) serGetObjects(principal model.Principal, orgID string, objectType string, subtype *string, statuses []string, locale *string) ([]model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsRead)
	if err != nil {
		return nil, err
	}

	objects, err := app.storage.FindObjects(nil, orgID, objectType, subtype, statuses)
	if err != nil {
		return nil, err
	}

	if locale == nil {
		return objects, nil
	}
	return app.translator.ResolveBatch(objects, *locale)
}

func (app *application) serCreateObject(principal model.Principal, item model.Object) (*model.Object, *model.LimitExceeded, error) {
	err := app.canPerform(principal, item.OrganizationID, model.PermissionObjectsWrite)
	if err != nil {
		return nil, nil, err
	}

	err = app.schemas.Validate(item.Type, item.Subtype, item.CustomProperties)
	if err != nil {
		return nil, nil, err
	}

	item.ID = uuid.NewString()
	item.CreatedBy = principal.ID
	item.DateCreated = time.Now().UTC()
	item.DateUpdated = nil
	if item.Status == "" {
		item.Status = model.ObjectStatusActive
	}

	//resolve the cap before opening the transaction, the chain walk is reads only
	var limit int64
	var limitScope *model.ScopeRef
	limitKey, limited := model.LimitKeyForType(item.Type)
	if limited {
		limit, limitScope, err = app.resolveLimit(item.OrganizationID, limitKey)
		if err != nil {
			return nil, nil, err
		}
	}

	var exceeded *model.LimitExceeded
	transaction := func(context storage.TransactionContext) error {
		if limited {
			err := app.storage.EnsureCounter(context, item.OrganizationID, limitKey, uuid.NewString())
			if err != nil {
				return err
			}
			reserved, current, err := app.storage.IncrementCounterWithLimit(context, item.OrganizationID, limitKey, limit)
			if err != nil {
				return err
			}
			if !reserved {
				exceeded = &model.LimitExceeded{Key: limitKey, Current: current, Limit: limit, Scope: *limitScope}
				return nil
			}
		}

		return app.storage.InsertObject(context, item)
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, nil, errors.WrapErrorAction(logutils.ActionCreate, model.TypeObject, &logutils.FieldArgs{"type": item.Type}, err)
	}
	if exceeded != nil {
		return nil, exceeded, nil
	}

	app.audit.record(item.OrganizationID, item.ID, model.ActionTypeCreate, principal.ID,
		map[string]interface{}{"type": item.Type, "subtype": item.Subtype})
	return &item, nil, nil
}

func (app *application) serUpdateObject(principal model.Principal, orgID string, id string, name *string, description *string, properties map[string]interface{}) (*model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsWrite)
	if err != nil {
		return nil, err
	}

	//typed outcomes cross the transaction boundary through opErr, plain
	//failures abort the transaction
	var opErr error
	var updated *model.Object
	transaction := func(context storage.TransactionContext) error {
		object, err := app.storage.FindObject(context, orgID, id)
		if err != nil {
			return err
		}
		if object == nil {
			opErr = &model.NotFoundError{DataType: string(model.TypeObject), ID: id}
			return nil
		}

		if name != nil {
			object.Name = *name
		}
		if description != nil {
			object.Description = description
		}
		if properties != nil {
			object.MergeProperties(properties)
		}

		err = app.schemas.Validate(object.Type, object.Subtype, object.CustomProperties)
		if err != nil {
			opErr = err
			return nil
		}

		now := time.Now().UTC()
		object.DateUpdated = &now

		err = app.storage.UpdateObject(context, *object)
		if err != nil {
			return err
		}
		updated = object
		return nil
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeObject, &logutils.FieldArgs{"_id": id}, err)
	}
	if opErr != nil {
		return nil, opErr
	}

	changed := make([]string, 0, len(properties))
	for key := range properties {
		changed = append(changed, key)
	}
	app.audit.record(orgID, id, model.ActionTypeUpdate, principal.ID,
		map[string]interface{}{"properties": changed})
	return updated, nil
}

func (app *application) serSetObjectStatus(principal model.Principal, orgID string, id string, status string) (*model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsWrite)
	if err != nil {
		return nil, err
	}
	if !validObjectStatus(status) {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeObject, &logutils.FieldArgs{"status": status})
	}

	object, err := app.storage.FindObject(nil, orgID, id)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, &model.NotFoundError{DataType: string(model.TypeObject), ID: id}
	}
	previous := object.Status

	//a counted object that is soft deleted frees its reserved limit slot, and
	//restoring one takes a slot again, both in the same transaction as the
	//status write
	limitKey, counted := model.LimitKeyForType(object.Type)
	release := counted && status == model.ObjectStatusDeleted && previous != model.ObjectStatusDeleted
	reserve := counted && previous == model.ObjectStatusDeleted && status != model.ObjectStatusDeleted

	var limit int64
	if reserve {
		limit, _, err = app.resolveLimit(orgID, limitKey)
		if err != nil {
			return nil, err
		}
	}

	var opErr error
	transaction := func(context storage.TransactionContext) error {
		if reserve {
			err := app.storage.EnsureCounter(context, orgID, limitKey, uuid.NewString())
			if err != nil {
				return err
			}
			reserved, current, err := app.storage.IncrementCounterWithLimit(context, orgID, limitKey, limit)
			if err != nil {
				return err
			}
			if !reserved {
				opErr = errors.ErrorData(logutils.StatusInvalid, model.TypeLimit,
					&logutils.FieldArgs{"key": limitKey, "limit": limit, "current": current})
				return nil
			}
		}

		err := app.storage.UpdateObjectStatus(context, orgID, id, status)
		if err != nil {
			return err
		}
		if release {
			return app.storage.DecrementCounter(context, orgID, limitKey)
		}
		return nil
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeObject, &logutils.FieldArgs{"_id": id, "status": status}, err)
	}
	if opErr != nil {
		return nil, opErr
	}

	object.Status = status
	now := time.Now().UTC()
	object.DateUpdated = &now

	app.audit.record(orgID, id, statusActionType(previous, status), principal.ID,
		map[string]interface{}{"from": previous, "to": status})
	return object, nil
}

// statusActionType names the lifecycle transition: pending to active is an
// approval, draft to active a publication, anything else a plain status
// change
func statusActionType(previous string, status string) string {
	if status == model.ObjectStatusActive {
		switch previous {
		case model.ObjectStatusPending:
			return model.ActionTypeApprove
		case model.ObjectStatusDraft:
			return model.ActionTypePublish
		}
	}
	return model.ActionTypeStatusChange
}

func validObjectStatus(status string) bool {
	switch status {
	case model.ObjectStatusActive, model.ObjectStatusDraft, model.ObjectStatusPending,
		model.ObjectStatusInactive, model.ObjectStatusDeleted:
		return true
	}
	return false
}

func (app *application) serGetLinks(principal model.Principal, orgID string, fromObjectID string, linkType string) ([]model.Link, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsRead)
	if err != nil {
		return nil, err
	}
	return app.storage.FindLinksFrom(nil, orgID, fromObjectID, linkType)
}

func (app *application) serCreateLink(principal model.Principal, item model.Link) (*model.Link, error) {
	err := app.canPerform(principal, item.OrganizationID, model.PermissionObjectsWrite)
	if err != nil {
		return nil, err
	}

	item.ID = uuid.NewString()
	item.DateCreated = time.Now().UTC()

	transaction := func(context storage.TransactionContext) error {
		return app.storage.InsertLink(context, item)
	}
	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionCreate, model.TypeLink, &logutils.FieldArgs{"type": item.Type}, err)
	}

	app.audit.record(item.OrganizationID, item.FromObjectID, model.ActionTypeUpdate, principal.ID,
		map[string]interface{}{"link_type": item.Type, "to_object_id": item.ToObjectID})
	return &item, nil
}

func (app *application) serReplaceLinks(principal model.Principal, orgID string, fromObjectID string, linkType string, members []model.LinkMember) ([]model.Link, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsWrite)
	if err != nil {
		return nil, err
	}

	from, err := app.storage.FindObject(nil, orgID, fromObjectID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, &model.NotFoundError{DataType: string(model.TypeObject), ID: fromObjectID}
	}

	now := time.Now().UTC()
	newLinks := make([]model.Link, len(members))
	for i, member := range members {
		newLinks[i] = model.Link{ID: uuid.NewString(), OrganizationID: orgID, FromObjectID: fromObjectID,
			ToObjectID: member.ToObjectID, Type: linkType, Properties: member.Properties, DateCreated: now}
	}

	err = app.storage.ReplaceLinks(orgID, fromObjectID, linkType, newLinks)
	if model.IsConflict(err) {
		time.Sleep(replaceRetryDelay)
		err = app.storage.ReplaceLinks(orgID, fromObjectID, linkType, newLinks)
	}
	if err != nil {
		return nil, err
	}

	app.audit.record(orgID, fromObjectID, model.ActionTypeReplaceLinks, principal.ID,
		map[string]interface{}{"link_type": linkType, "count": len(members)})
	return app.storage.FindLinksFrom(nil, orgID, fromObjectID, linkType)
}

func (app *application) serResolveConfig(principal model.Principal, orgID string, key string, options model.ChainOptions) (*model.Resolved, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsRead)
	if err != nil {
		return nil, err
	}

	chain, err := app.buildScopeChain(orgID, options)
	if err != nil {
		return nil, err
	}
	return resolve.Resolve(key, chain, app.scopeLookup())
}

// serResolveTemplates gives the ordered templates of the effective template
// set: the config.template_set key resolved over the chain names the set,
// its includes_template links give the members
func (app *application) serResolveTemplates(principal model.Principal, orgID string, outputType *string, options model.ChainOptions) ([]model.Object, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsRead)
	if err != nil {
		return nil, err
	}

	chain, err := app.buildScopeChain(orgID, options)
	if err != nil {
		return nil, err
	}
	resolved, err := resolve.Resolve(model.ConfigKeyTemplateSet, chain, app.scopeLookup())
	if err != nil {
		return nil, err
	}

	ref, ok := model.TemplateSetRefFromValue(resolved.Value)
	if !ok {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeConfigKey,
			&logutils.FieldArgs{"key": model.ConfigKeyTemplateSet, "value": resolved.Value})
	}

	links, err := app.storage.FindLinksFrom(nil, ref.OrganizationID, ref.ObjectID, model.LinkTypeIncludesTemplate)
	if err != nil {
		return nil, err
	}

	templates := make([]model.Object, 0, len(links))
	for _, item := range links {
		template, err := app.storage.FindObject(nil, ref.OrganizationID, item.ToObjectID)
		if err != nil {
			return nil, err
		}
		if template == nil || template.Type != model.ObjectTypeTemplate || template.Status != model.ObjectStatusActive {
			continue
		}
		//the subtype names the output, email or pdf
		if outputType != nil && template.Subtype != *outputType {
			continue
		}
		templates = append(templates, *template)
	}
	return templates, nil
}

func (app *application) serGetObjectHistory(principal model.Principal, orgID string, objectID string) ([]model.Action, error) {
	err := app.canPerform(principal, orgID, model.PermissionObjectsRead)
	if err != nil {
		return nil, err
	}

	//the object must be visible in the asked org, history never leaks across tenants
	object, err := app.storage.FindObject(nil, orgID, objectID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, &model.NotFoundError{DataType: string(model.TypeObject), ID: objectID}
	}

	return app.storage.FindActions(orgID, objectID)
}
