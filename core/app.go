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

// application represents the core application code based on hexagonal architecture
type application struct {
	version string
	build   string

	storage    Storage
	schemas    *model.SchemaRegistry
	hierarchy  *model.RoleHierarchy
	evaluator  *access.Evaluator
	translator *resolve.Translator
	audit      *auditLogger

	logger *logs.Logger
}

// start starts the core part of the application
func (app *application) start() {
	app.audit.start()
}

// evaluatorStorage adapts the storage interface to the slice the permission
// evaluator reads. Evaluation always runs outside transactions.
type evaluatorStorage struct {
	storage Storage
}

func (s *evaluatorStorage) FindMembershipObject(orgID string, principalID string) (*model.Object, error) {
	return s.storage.FindMembershipObject(nil, orgID, principalID)
}

func (s *evaluatorStorage) FindObject(orgID string, id string) (*model.Object, error) {
	return s.storage.FindObject(nil, orgID, id)
}

func (s *evaluatorStorage) FindObjectByTypeName(orgID string, objectType string, name string) (*model.Object, error) {
	return s.storage.FindObjectByTypeName(nil, orgID, objectType, name)
}

func (s *evaluatorStorage) FindLinksFrom(orgID string, fromObjectID string, linkType string) ([]model.Link, error) {
	return s.storage.FindLinksFrom(nil, orgID, fromObjectID, linkType)
}

var _ access.Storage = (*evaluatorStorage)(nil)

var _ resolve.TranslationSource = (Storage)(nil)
