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
	"platform-building-block/driven/storage"
)

// Services exposes the tenant facing APIs for the driver adapters
type Services interface {
	SerGetVersion() string

	SerGetObject(principal model.Principal, orgID string, id string, locale *string) (*model.Object, error)
	SerGetObjects(principal model.Principal, orgID string, objectType string, subtype *string, statuses []string, locale *string) ([]model.Object, error)
	SerCreateObject(principal model.Principal, item model.Object) (*model.Object, *model.LimitExceeded, error)
	SerUpdateObject(principal model.Principal, orgID string, id string, name *string, description *string, properties map[string]interface{}) (*model.Object, error)
	SerSetObjectStatus(principal model.Principal, orgID string, id string, status string) (*model.Object, error)

	SerGetLinks(principal model.Principal, orgID string, fromObjectID string, linkType string) ([]model.Link, error)
	SerCreateLink(principal model.Principal, item model.Link) (*model.Link, error)
	SerReplaceLinks(principal model.Principal, orgID string, fromObjectID string, linkType string, members []model.LinkMember) ([]model.Link, error)

	SerResolveConfig(principal model.Principal, orgID string, key string, options model.ChainOptions) (*model.Resolved, error)
	SerResolveTemplates(principal model.Principal, orgID string, outputType *string, options model.ChainOptions) ([]model.Object, error)

	SerGetObjectHistory(principal model.Principal, orgID string, objectID string) ([]model.Action, error)
}

// Administration exposes the organization administration APIs for the
// driver adapters
type Administration interface {
	AdmCreateRole(principal model.Principal, orgID string, name string, permissions []string) (*model.Object, error)
	AdmGetRoles(principal model.Principal, orgID string) ([]model.Object, error)

	AdmSetMembership(principal model.Principal, orgID string, memberID string, roleID string, status string) (*model.Object, error)
	AdmGetMembers(principal model.Principal, orgID string) ([]model.Object, error)
	AdmRevokeMembership(principal model.Principal, orgID string, memberID string) error
}

// System exposes the platform operator APIs for the driver adapters
type System interface {
	SysSeed(principal model.Principal) error
	SysCreateOrganization(principal model.Principal, name string, plan string) (*model.Object, error)
	SysGetOrganizations(principal model.Principal) ([]model.Object, error)
}

// Storage is used by core to store data - the mongo storage adapter
type Storage interface {
	PerformTransaction(transaction func(context storage.TransactionContext) error) error

	FindObject(context storage.TransactionContext, orgID string, id string) (*model.Object, error)
	FindObjectByTypeName(context storage.TransactionContext, orgID string, objectType string, name string) (*model.Object, error)
	FindMembershipObject(context storage.TransactionContext, orgID string, principalID string) (*model.Object, error)
	FindObjects(context storage.TransactionContext, orgID string, objectType string, subtype *string, statuses []string) ([]model.Object, error)
	FindObjectsByTypeSubtype(objectType string, subtype string) ([]model.Object, error)
	InsertObject(context storage.TransactionContext, item model.Object) error
	UpdateObject(context storage.TransactionContext, item model.Object) error
	UpdateObjectStatus(context storage.TransactionContext, orgID string, id string, status string) error

	FindLinksFrom(context storage.TransactionContext, orgID string, fromObjectID string, linkType string) ([]model.Link, error)
	FindLinksTo(context storage.TransactionContext, orgID string, toObjectID string, linkType string) ([]model.Link, error)
	InsertLink(context storage.TransactionContext, item model.Link) error
	DeleteLinksFrom(context storage.TransactionContext, orgID string, fromObjectID string, linkType string) (int64, error)
	ReplaceLinks(orgID string, fromObjectID string, linkType string, newLinks []model.Link) error

	InsertAction(context storage.TransactionContext, item model.Action) error
	FindActions(orgID string, objectID string) ([]model.Action, error)

	EnsureCounter(context storage.TransactionContext, orgID string, key string, id string) error
	IncrementCounterWithLimit(context storage.TransactionContext, orgID string, key string, limit int64) (bool, int64, error)
	DecrementCounter(context storage.TransactionContext, orgID string, key string) error
	GetCounter(context storage.TransactionContext, orgID string, key string) (int64, error)

	FindSystemConfig(key string) (*model.Object, error)
	FindTranslations(orgID string, keys []string, locale string) (map[string]string, error)
}
