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
	"platform-building-block/core/access"
	"platform-building-block/core/model"
	"platform-building-block/core/resolve"

	"github.com/rokwire/logging-library-go/v2/logs"
)

// CoreAPIs exposes to the drivers adapters access to the core functionality
type CoreAPIs struct {
	Services       Services
	Administration Administration
	System         System

	app *application
}

// Start starts the core part of the application
func (c *CoreAPIs) Start() {
	c.app.start()
}

// NewCoreAPIs creates new CoreAPIs
func NewCoreAPIs(version string, build string, storage Storage, hierarchy *model.RoleHierarchy, logger *logs.Logger) (*CoreAPIs, error) {
	schemas := model.NewSchemaRegistry()
	err := model.RegisterCoreSchemas(schemas)
	if err != nil {
		return nil, err
	}

	evaluator := access.NewEvaluator(&evaluatorStorage{storage: storage}, hierarchy)
	translator := resolve.NewTranslator(storage)
	audit := newAuditLogger(storage, logger)

	application := application{version: version, build: build, storage: storage, schemas: schemas,
		hierarchy: hierarchy, evaluator: evaluator, translator: translator, audit: audit, logger: logger}

	servicesImpl := &servicesImpl{app: &application}
	administrationImpl := &administrationImpl{app: &application}
	systemImpl := &systemImpl{app: &application}

	coreAPIs := CoreAPIs{Services: servicesImpl, Administration: administrationImpl,
		System: systemImpl, app: &application}
	return &coreAPIs, nil
}

///

// servicesImpl
type servicesImpl struct {
	app *application
}

func (s *servicesImpl) SerGetVersion() string {
	return s.app.serGetVersion()
}

func (s *servicesImpl) SerGetObject(principal model.Principal, orgID string, id string, locale *string) (*model.Object, error) {
	return s.app.serGetObject(principal, orgID, id, locale)
}

func (s *servicesImpl) SerGetObjects(principal model.Principal, orgID string, objectType string, subtype *string, statuses []string, locale *string) ([]model.Object, error) {
	return s.app.serGetObjects(principal, orgID, objectType, subtype, statuses, locale)
}

func (s *servicesImpl) SerCreateObject(principal model.Principal, item model.Object) (*model.Object, *model.LimitExceeded, error) {
	return s.app.serCreateObject(principal, item)
}

func (s *servicesImpl) SerUpdateObject(principal model.Principal, orgID string, id string, name *string, description *string, properties map[string]interface{}) (*model.Object, error) {
	return s.app.serUpdateObject(principal, orgID, id, name, description, properties)
}

func (s *servicesImpl) SerSetObjectStatus(principal model.Principal, orgID string, id string, status string) (*model.Object, error) {
	return s.app.serSetObjectStatus(principal, orgID, id, status)
}

func (s *servicesImpl) SerGetLinks(principal model.Principal, orgID string, fromObjectID string, linkType string) ([]model.Link, error) {
	return s.app.serGetLinks(principal, orgID, fromObjectID, linkType)
}

func (s *servicesImpl) SerCreateLink(principal model.Principal, item model.Link) (*model.Link, error) {
	return s.app.serCreateLink(principal, item)
}

func (s *servicesImpl) SerReplaceLinks(principal model.Principal, orgID string, fromObjectID string, linkType string, members []model.LinkMember) ([]model.Link, error) {
	return s.app.serReplaceLinks(principal, orgID, fromObjectID, linkType, members)
}

func (s *servicesImpl) SerResolveConfig(principal model.Principal, orgID string, key string, options model.ChainOptions) (*model.Resolved, error) {
	return s.app.serResolveConfig(principal, orgID, key, options)
}

func (s *servicesImpl) SerResolveTemplates(principal model.Principal, orgID string, outputType *string, options model.ChainOptions) ([]model.Object, error) {
	return s.app.serResolveTemplates(principal, orgID, outputType, options)
}

func (s *servicesImpl) SerGetObjectHistory(principal model.Principal, orgID string, objectID string) ([]model.Action, error) {
	return s.app.serGetObjectHistory(principal, orgID, objectID)
}

///

// administrationImpl
type administrationImpl struct {
	app *application
}

func (s *administrationImpl) AdmCreateRole(principal model.Principal, orgID string, name string, permissions []string) (*model.Object, error) {
	return s.app.admCreateRole(principal, orgID, name, permissions)
}

func (s *administrationImpl) AdmGetRoles(principal model.Principal, orgID string) ([]model.Object, error) {
	return s.app.admGetRoles(principal, orgID)
}

func (s *administrationImpl) AdmSetMembership(principal model.Principal, orgID string, memberID string, roleID string, status string) (*model.Object, error) {
	return s.app.admSetMembership(principal, orgID, memberID, roleID, status)
}

func (s *administrationImpl) AdmGetMembers(principal model.Principal, orgID string) ([]model.Object, error) {
	return s.app.admGetMembers(principal, orgID)
}

func (s *administrationImpl) AdmRevokeMembership(principal model.Principal, orgID string, memberID string) error {
	return s.app.admRevokeMembership(principal, orgID, memberID)
}

///

// systemImpl
type systemImpl struct {
	app *application
}

func (s *systemImpl) SysSeed(principal model.Principal) error {
	return s.app.sysSeed(principal)
}

func (s *systemImpl) SysCreateOrganization(principal model.Principal, name string, plan string) (*model.Object, error) {
	return s.app.sysCreateOrganization(principal, name, plan)
}

func (s *systemImpl) SysGetOrganizations(principal model.Principal) ([]model.Object, error) {
	return s.app.sysGetOrganizations(principal)
}
