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
	"platform-building-block/core/model"
	"platform-building-block/core/resolve"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// canPerform gates every operation. Denial is a ForbiddenError so the web
// adapter can answer 403 instead of 500.
func (app *application) canPerform(principal model.Principal, orgID string, permission string) error {
	allowed, err := app.evaluator.CanPerform(principal, orgID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return &model.ForbiddenError{PrincipalID: principal.ID, OrganizationID: orgID, Permission: permission}
	}
	return nil
}

// buildScopeChain assembles the canonical resolution chain for an
// organization, most specific scope first: product, checkout, domain,
// organization, system. Optional scopes the caller did not name are left
// out; a named scope must exist.
func (app *application) buildScopeChain(orgID string, options model.ChainOptions) ([]model.ScopeRef, error) {
	chain := make([]model.ScopeRef, 0, 5)

	if options.ProductID != nil {
		scope, err := app.scopeByID(orgID, model.ObjectTypeProduct, *options.ProductID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *scope)
	}
	if options.CheckoutID != nil {
		scope, err := app.scopeByID(orgID, model.ObjectTypeCheckout, *options.CheckoutID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *scope)
	}
	if options.Domain != nil {
		//domains are addressed by hostname, not id
		object, err := app.storage.FindObjectByTypeName(nil, orgID, model.ObjectTypeDomain, *options.Domain)
		if err != nil {
			return nil, err
		}
		if object == nil {
			return nil, &model.NotFoundError{DataType: string(model.TypeObject), ID: *options.Domain}
		}
		chain = append(chain, model.ScopeRef{OrganizationID: orgID, Type: model.ObjectTypeDomain, ID: object.ID})
	}

	//the organization scope hangs off the org profile singleton
	profile, err := app.findOrgProfile(orgID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		chain = append(chain, model.ScopeRef{OrganizationID: orgID, Type: model.ObjectTypeOrganization, ID: profile.ID})
	}

	//terminal system default, always present
	chain = append(chain, model.ScopeRef{OrganizationID: model.SystemOrgID, Type: model.ObjectTypeOrganization, ID: model.SystemOrgID})
	return chain, nil
}

func (app *application) scopeByID(orgID string, objectType string, id string) (*model.ScopeRef, error) {
	object, err := app.storage.FindObject(nil, orgID, id)
	if err != nil {
		return nil, err
	}
	if object == nil || object.Type != objectType {
		return nil, &model.NotFoundError{DataType: string(model.TypeObject), ID: id}
	}
	return &model.ScopeRef{OrganizationID: orgID, Type: objectType, ID: object.ID}, nil
}

func (app *application) findOrgProfile(orgID string) (*model.Object, error) {
	subtype := model.SubtypeProfile
	profiles, err := app.storage.FindObjects(nil, orgID, model.ObjectTypeOrganization, &subtype, nil)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// scopeLookup gives the lookup the precedence engine walks with. A scope
// defines a key when an active config object named by the key configures
// the scope object. The terminal system scope reads the cached system
// configs instead of walking links.
func (app *application) scopeLookup() resolve.LookupFunc {
	return func(scope model.ScopeRef, key string) (interface{}, bool, error) {
		if scope.OrganizationID == model.SystemOrgID {
			config, err := app.storage.FindSystemConfig(key)
			if err != nil {
				return nil, false, err
			}
			if config == nil {
				return nil, false, nil
			}
			return config.CustomProperties[model.PropertyConfigValue], true, nil
		}

		links, err := app.storage.FindLinksTo(nil, scope.OrganizationID, scope.ID, model.LinkTypeConfigures)
		if err != nil {
			return nil, false, err
		}
		for _, item := range links {
			config, err := app.storage.FindObject(nil, scope.OrganizationID, item.FromObjectID)
			if err != nil {
				return nil, false, err
			}
			if config == nil || config.Type != model.ObjectTypeConfig {
				continue
			}
			if config.Name != key || config.Status != model.ObjectStatusActive {
				continue
			}
			return config.CustomProperties[model.PropertyConfigValue], true, nil
		}
		return nil, false, nil
	}
}

// resolveForOrg resolves a key over the basic org chain, without the
// optional request scopes
func (app *application) resolveForOrg(orgID string, key string) (*model.Resolved, error) {
	chain, err := app.buildScopeChain(orgID, model.ChainOptions{})
	if err != nil {
		return nil, err
	}
	return resolve.Resolve(key, chain, app.scopeLookup())
}

// resolveLimit gives the numeric cap for a limit key in an organization
func (app *application) resolveLimit(orgID string, key string) (int64, *model.ScopeRef, error) {
	resolved, err := app.resolveForOrg(orgID, key)
	if err != nil {
		return 0, nil, err
	}

	limit, ok := numericValue(resolved.Value)
	if !ok {
		return 0, nil, errors.ErrorData(logutils.StatusInvalid, model.TypeLimit, &logutils.FieldArgs{"key": key, "value": resolved.Value})
	}
	return limit, &resolved.Scope, nil
}

func numericValue(value interface{}) (int64, bool) {
	switch value := value.(type) {
	case int:
		return int64(value), true
	case int32:
		return int64(value), true
	case int64:
		return value, true
	case float64:
		return int64(value), true
	}
	return 0, false
}
