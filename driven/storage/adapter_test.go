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

package storage

import (
	"testing"

	"platform-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/stretchr/testify/assert"
)

func TestQueryKeysIndexed(t *testing.T) {
	assert.True(t, queryKeysIndexed([]string{"org_id", "type"}))
	assert.True(t, queryKeysIndexed([]string{"org_id", "type", "subtype"}))
	assert.True(t, queryKeysIndexed([]string{"org_id", "type", "subtype", "status"}))
	assert.True(t, queryKeysIndexed([]string{"org_id", "type", "name"}))
	assert.True(t, queryKeysIndexed([]string{"type", "subtype"}))

	//no index prefix covers these shapes
	assert.False(t, queryKeysIndexed([]string{"org_id", "status"}))
	assert.False(t, queryKeysIndexed([]string{"org_id", "type", "status"}))
	assert.False(t, queryKeysIndexed([]string{"name"}))
	assert.False(t, queryKeysIndexed([]string{"org_id", "type", "subtype", "status", "name"}))
}

func TestSortLinksByDisplayOrder(t *testing.T) {
	links := []model.Link{
		{ID: "c", Properties: map[string]interface{}{model.LinkPropertyDisplayOrder: 2}},
		{ID: "unordered"},
		{ID: "a", Properties: map[string]interface{}{model.LinkPropertyDisplayOrder: 0}},
		{ID: "b", Properties: map[string]interface{}{model.LinkPropertyDisplayOrder: 1}},
	}

	sortLinksByDisplayOrder(links)

	//links without an order sort first on their -1 default
	assert.Equal(t, "unordered", links[0].ID)
	assert.Equal(t, "a", links[1].ID)
	assert.Equal(t, "b", links[2].ID)
	assert.Equal(t, "c", links[3].ID)
}

func TestSystemConfigReloadDeferredPastWrite(t *testing.T) {
	adapter := NewStorageAdapter("mongodb://localhost", "test", "2000", logs.NewLogger("test", nil))

	//writes outside the system tenant, or to other types, leave the cache alone
	adapter.invalidateSystemConfigsIfNeeded(model.Object{OrganizationID: "org1", Type: model.ObjectTypeConfig})
	adapter.invalidateSystemConfigsIfNeeded(model.Object{OrganizationID: model.SystemOrgID, Type: model.ObjectTypeContact})
	assert.False(t, adapter.takeSystemConfigsDirty())

	//a system config write marks the cache and the mark survives until the
	//post commit reload consumes it
	adapter.invalidateSystemConfigsIfNeeded(model.Object{OrganizationID: model.SystemOrgID, Type: model.ObjectTypeConfig})
	assert.True(t, adapter.takeSystemConfigsDirty())
	assert.False(t, adapter.takeSystemConfigsDirty())

	//status writes in the system tenant mark it too
	adapter.markSystemConfigsDirty()
	assert.True(t, adapter.takeSystemConfigsDirty())
}

func TestSystemConfigCacheServesActiveOnly(t *testing.T) {
	adapter := NewStorageAdapter("mongodb://localhost", "test", "2000", logs.NewLogger("test", nil))

	adapter.setCachedSystemConfigs([]model.Object{
		{ID: "c1", OrganizationID: model.SystemOrgID, Type: model.ObjectTypeConfig,
			Name: model.ConfigKeyTaxBehavior, Status: model.ObjectStatusActive},
		{ID: "c2", OrganizationID: model.SystemOrgID, Type: model.ObjectTypeConfig,
			Name: model.LimitKeyContacts, Status: model.ObjectStatusInactive},
	})

	found, err := adapter.FindSystemConfig(model.ConfigKeyTaxBehavior)
	assert.NoError(t, err)
	assert.NotNil(t, found)

	missing, err := adapter.FindSystemConfig(model.LimitKeyContacts)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReplaceLockPerKey(t *testing.T) {
	adapter := NewStorageAdapter("mongodb://localhost", "test", "2000", logs.NewLogger("test", nil))

	lock := adapter.replaceLock("org1", "set1", model.LinkTypeIncludesTemplate)
	same := adapter.replaceLock("org1", "set1", model.LinkTypeIncludesTemplate)
	other := adapter.replaceLock("org1", "set2", model.LinkTypeIncludesTemplate)

	assert.Same(t, lock, same)
	assert.NotSame(t, lock, other)

	//a held lock refuses a second overlapping replacement
	assert.True(t, lock.TryLock())
	assert.False(t, same.TryLock())
	lock.Unlock()
	assert.True(t, other.TryLock())
	other.Unlock()
}
