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
	"fmt"
	"sort"
	"sync"
	"testing"

	"platform-building-block/core/model"
	"platform-building-block/driven/storage"

	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/stretchr/testify/assert"
)

//Storage fake - an in-memory stand-in for the mongo adapter

type fakeStorage struct {
	//each operation is atomic under mu, the way a mongo single document
	//operation is
	mu sync.Mutex

	objects  map[string]map[string]model.Object
	links    map[string][]model.Link
	actions  []model.Action
	counters map[string]int64

	//pending ReplaceLinks calls that report an in-flight overlap
	replaceConflicts int
}

var _ Storage = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]map[string]model.Object{},
		links: map[string][]model.Link{}, counters: map[string]int64{}}
}

func (s *fakeStorage) add(item model.Object) {
	if s.objects[item.OrganizationID] == nil {
		s.objects[item.OrganizationID] = map[string]model.Object{}
	}
	s.objects[item.OrganizationID][item.ID] = item
}

func (s *fakeStorage) PerformTransaction(transaction func(context storage.TransactionContext) error) error {
	return transaction(nil)
}

func (s *fakeStorage) FindObject(context storage.TransactionContext, orgID string, id string) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.objects[orgID][id]; ok {
		return &item, nil
	}
	return nil, nil
}

func (s *fakeStorage) findByTypeName(orgID string, objectType string, name string) *model.Object {
	for _, item := range s.objects[orgID] {
		if item.Type == objectType && item.Name == name {
			found := item
			return &found
		}
	}
	return nil
}

func (s *fakeStorage) FindObjectByTypeName(context storage.TransactionContext, orgID string, objectType string, name string) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findByTypeName(orgID, objectType, name), nil
}

func (s *fakeStorage) FindMembershipObject(context storage.TransactionContext, orgID string, principalID string) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findByTypeName(orgID, model.ObjectTypeMember, principalID), nil
}

func (s *fakeStorage) FindObjects(context storage.TransactionContext, orgID string, objectType string, subtype *string, statuses []string) ([]model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.Object{}
	for _, item := range s.objects[orgID] {
		if item.Type != objectType {
			continue
		}
		if subtype != nil && item.Subtype != *subtype {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, status := range statuses {
				if item.Status == status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *fakeStorage) FindObjectsByTypeSubtype(objectType string, subtype string) ([]model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.Object{}
	for _, org := range s.objects {
		for _, item := range org {
			if item.Type == objectType && item.Subtype == subtype {
				result = append(result, item)
			}
		}
	}
	return result, nil
}

func (s *fakeStorage) InsertObject(context storage.TransactionContext, item model.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.add(item)
	return nil
}

func (s *fakeStorage) UpdateObject(context storage.TransactionContext, item model.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[item.OrganizationID][item.ID]; !ok {
		return &model.NotFoundError{DataType: string(model.TypeObject), ID: item.ID}
	}
	s.objects[item.OrganizationID][item.ID] = item
	return nil
}

func (s *fakeStorage) UpdateObjectStatus(context storage.TransactionContext, orgID string, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.objects[orgID][id]
	if !ok {
		return &model.NotFoundError{DataType: string(model.TypeObject), ID: id}
	}
	item.Status = status
	s.objects[orgID][id] = item
	return nil
}

func (s *fakeStorage) FindLinksFrom(context storage.TransactionContext, orgID string, fromObjectID string, linkType string) ([]model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.Link{}
	for _, link := range s.links[orgID] {
		if link.FromObjectID == fromObjectID && link.Type == linkType {
			result = append(result, link)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].DisplayOrder() < result[j].DisplayOrder() })
	return result, nil
}

func (s *fakeStorage) FindLinksTo(context storage.TransactionContext, orgID string, toObjectID string, linkType string) ([]model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.Link{}
	for _, link := range s.links[orgID] {
		if link.ToObjectID == toObjectID && link.Type == linkType {
			result = append(result, link)
		}
	}
	return result, nil
}

func (s *fakeStorage) InsertLink(context storage.TransactionContext, item model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links[item.OrganizationID] = append(s.links[item.OrganizationID], item)
	return nil
}

func (s *fakeStorage) deleteLinksFrom(orgID string, fromObjectID string, linkType string) int64 {
	kept := []model.Link{}
	var deleted int64
	for _, link := range s.links[orgID] {
		if link.FromObjectID == fromObjectID && link.Type == linkType {
			deleted++
			continue
		}
		kept = append(kept, link)
	}
	s.links[orgID] = kept
	return deleted
}

func (s *fakeStorage) DeleteLinksFrom(context storage.TransactionContext, orgID string, fromObjectID string, linkType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteLinksFrom(orgID, fromObjectID, linkType), nil
}

// ReplaceLinks swaps the membership in one atomic step, the way the adapter
// does it under the replacement lock
func (s *fakeStorage) ReplaceLinks(orgID string, fromObjectID string, linkType string, newLinks []model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replaceConflicts > 0 {
		s.replaceConflicts--
		return &model.ConflictError{FromObjectID: fromObjectID, LinkType: linkType}
	}
	s.deleteLinksFrom(orgID, fromObjectID, linkType)
	s.links[orgID] = append(s.links[orgID], newLinks...)
	return nil
}

func (s *fakeStorage) InsertAction(context storage.TransactionContext, item model.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actions = append(s.actions, item)
	return nil
}

func (s *fakeStorage) FindActions(orgID string, objectID string) ([]model.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []model.Action{}
	for _, action := range s.actions {
		if action.OrganizationID == orgID && action.ObjectID == objectID {
			result = append(result, action)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].DatePerformed.Before(result[j].DatePerformed) })
	return result, nil
}

func (s *fakeStorage) EnsureCounter(context storage.TransactionContext, orgID string, key string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counterKey := orgID + "/" + key
	if _, ok := s.counters[counterKey]; !ok {
		s.counters[counterKey] = 0
	}
	return nil
}

// IncrementCounterWithLimit checks and reserves in one atomic step, the way
// the adapter's single FindOneAndUpdate does
func (s *fakeStorage) IncrementCounterWithLimit(context storage.TransactionContext, orgID string, key string, limit int64) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counterKey := orgID + "/" + key
	if s.counters[counterKey] < limit {
		s.counters[counterKey]++
		return true, s.counters[counterKey], nil
	}
	return false, s.counters[counterKey], nil
}

func (s *fakeStorage) DecrementCounter(context storage.TransactionContext, orgID string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counterKey := orgID + "/" + key
	if s.counters[counterKey] > 0 {
		s.counters[counterKey]--
	}
	return nil
}

func (s *fakeStorage) GetCounter(context storage.TransactionContext, orgID string, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counters[orgID+"/"+key], nil
}

func (s *fakeStorage) FindSystemConfig(key string) (*model.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findByTypeName(model.SystemOrgID, model.ObjectTypeConfig, key), nil
}

func (s *fakeStorage) FindTranslations(orgID string, keys []string, locale string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := map[string]string{}
	for _, item := range s.objects[orgID] {
		if item.Type != model.ObjectTypeTranslation || item.Status != model.ObjectStatusActive {
			continue
		}
		if item.Locale == nil || *item.Locale != locale {
			continue
		}
		for _, key := range keys {
			if item.Name == key {
				if value, ok := item.PropertyString(model.PropertyConfigValue); ok {
					result[key] = value
				}
			}
		}
	}
	return result, nil
}

///

func testHierarchy() *model.RoleHierarchy {
	return model.NewRoleHierarchy("test",
		[]string{"system_admin", "owner", "admin", "manager", "member"},
		[]string{"system_admin"})
}

func newTestAPIs(t *testing.T, store *fakeStorage) *CoreAPIs {
	logger := logs.NewLogger("test", nil)
	apis, err := NewCoreAPIs("1.0.0", "test", store, testHierarchy(), logger)
	assert.NoError(t, err)
	return apis
}

func operator() model.Principal {
	role := "system_admin"
	return model.Principal{ID: "operator", GlobalRole: &role}
}

// seedSystemConfig writes a system default config object for a key
func seedSystemConfig(store *fakeStorage, key string, value interface{}) {
	store.add(model.Object{ID: "config-" + key, OrganizationID: model.SystemOrgID,
		Type: model.ObjectTypeConfig, Subtype: "override", Name: key, Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{model.PropertyConfigValue: value}})
}

// seedMember sets up an organization role with its grants and an active
// membership for the principal
func seedMember(store *fakeStorage, orgID string, principalID string, roleName string, permissions []string) {
	roleID := orgID + "-role-" + roleName
	store.add(model.Object{ID: roleID, OrganizationID: orgID, Type: model.ObjectTypeRole,
		Subtype: "role", Name: roleName, Status: model.ObjectStatusActive})
	for _, permission := range permissions {
		permissionID := orgID + "-perm-" + permission
		if _, ok := store.objects[orgID][permissionID]; !ok {
			store.add(model.Object{ID: permissionID, OrganizationID: orgID, Type: model.ObjectTypePermission,
				Subtype: "permission", Name: permission, Status: model.ObjectStatusActive})
		}
		store.links[orgID] = append(store.links[orgID], model.Link{ID: roleID + "-" + permission,
			OrganizationID: orgID, FromObjectID: roleID, ToObjectID: permissionID, Type: model.LinkTypeGrants})
	}
	store.add(model.Object{ID: orgID + "-member-" + principalID, OrganizationID: orgID,
		Type: model.ObjectTypeMember, Subtype: "member", Name: principalID, Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{model.PropertyRoleID: roleID, model.PropertyStatus: model.MembershipStatusActive}})
}

///

func TestSerGetVersion(t *testing.T) {
	apis := newTestAPIs(t, newFakeStorage())

	assert.Equal(t, "1.0.0", apis.Services.SerGetVersion())
}

func TestSerGetObjectTenantIsolation(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "object1", OrganizationID: "org2", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Alice", Status: model.ObjectStatusActive})
	apis := newTestAPIs(t, store)

	//visible in its own tenant
	found, err := apis.Services.SerGetObject(operator(), "org2", "object1", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)

	//the same id through another tenant is indistinguishable from missing
	_, err = apis.Services.SerGetObject(operator(), "org1", "object1", nil)
	assert.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestSerCreateObjectLimit(t *testing.T) {
	store := newFakeStorage()
	seedSystemConfig(store, model.LimitKeyContacts, int64(1))
	apis := newTestAPIs(t, store)

	contact := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact, Subtype: "person", Name: "Alice"}
	created, exceeded, err := apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.Nil(t, exceeded)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.ObjectStatusActive, created.Status)

	//the cap is reached, the outcome is structured and not an error
	contact.Name = "Bob"
	created, exceeded, err = apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.Nil(t, created)
	assert.NotNil(t, exceeded)
	assert.Equal(t, model.LimitKeyContacts, exceeded.Key)
	assert.Equal(t, int64(1), exceeded.Limit)
	assert.Equal(t, int64(1), exceeded.Current)
	assert.Equal(t, model.SystemOrgID, exceeded.Scope.OrganizationID)
}

func TestSerCreateObjectLimitPerTenant(t *testing.T) {
	store := newFakeStorage()
	seedSystemConfig(store, model.LimitKeyContacts, int64(1))
	apis := newTestAPIs(t, store)

	contact := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact, Subtype: "person", Name: "Alice"}
	_, exceeded, err := apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.Nil(t, exceeded)

	//another tenant has its own counter
	contact.OrganizationID = "org2"
	_, exceeded, err = apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.Nil(t, exceeded)
}

func TestSerCreateObjectLimitConcurrent(t *testing.T) {
	store := newFakeStorage()
	seedSystemConfig(store, model.LimitKeyContacts, int64(3))
	apis := newTestAPIs(t, store)

	const callers = 8
	created := make([]*model.Object, callers)
	exceeded := make([]*model.LimitExceeded, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			contact := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact,
				Subtype: "person", Name: fmt.Sprintf("Contact %d", i)}
			created[i], exceeded[i], errs[i] = apis.Services.SerCreateObject(operator(), contact)
		}(i)
	}
	wg.Wait()

	//the check and reserve is one step, so exactly the cap wins, never more
	wins := 0
	for i := 0; i < callers; i++ {
		assert.NoError(t, errs[i])
		if created[i] != nil {
			assert.Nil(t, exceeded[i])
			wins++
		} else {
			assert.NotNil(t, exceeded[i])
		}
	}
	assert.Equal(t, 3, wins)
	assert.Len(t, store.objects["org1"], 3)

	count, err := store.GetCounter(nil, "org1", model.LimitKeyContacts)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSerCreateObjectSchemaViolation(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	contact := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact, Subtype: "person",
		Name: "Alice", CustomProperties: map[string]interface{}{"nickname": "al"}}
	_, _, err := apis.Services.SerCreateObject(operator(), contact)
	assert.Error(t, err)
	assert.True(t, model.IsSchemaViolation(err))
	assert.Empty(t, store.objects["org1"])
}

func TestSerCreateObjectUnregisteredSchema(t *testing.T) {
	apis := newTestAPIs(t, newFakeStorage())

	item := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact, Subtype: "droid", Name: "R2"}
	_, _, err := apis.Services.SerCreateObject(operator(), item)
	assert.Error(t, err)
	assert.True(t, model.IsSchemaNotRegistered(err))
}

func TestSerUpdateObject(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Alice", Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{"email": "alice@example.com", "phone": "123"}})
	apis := newTestAPIs(t, store)

	name := "Alice Smith"
	updated, err := apis.Services.SerUpdateObject(operator(), "org1", "object1", &name, nil,
		map[string]interface{}{"email": "smith@example.com", "phone": nil})
	assert.NoError(t, err)
	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, "smith@example.com", updated.CustomProperties["email"])
	_, hasPhone := updated.CustomProperties["phone"]
	assert.False(t, hasPhone)
	assert.NotNil(t, updated.DateUpdated)
}

func TestSerUpdateObjectNotFound(t *testing.T) {
	apis := newTestAPIs(t, newFakeStorage())

	_, err := apis.Services.SerUpdateObject(operator(), "org1", "missing", nil, nil, nil)
	assert.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestSerUpdateObjectSchemaViolation(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Alice", Status: model.ObjectStatusActive})
	apis := newTestAPIs(t, store)

	_, err := apis.Services.SerUpdateObject(operator(), "org1", "object1", nil, nil,
		map[string]interface{}{"email": "not-an-email"})
	assert.Error(t, err)
	assert.True(t, model.IsSchemaViolation(err))

	//the stored object is untouched
	stored := store.objects["org1"]["object1"]
	assert.Nil(t, stored.CustomProperties["email"])
}

func TestSerSetObjectStatus(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeTemplate,
		Subtype: "email", Name: "Welcome", Status: model.ObjectStatusDraft})
	apis := newTestAPIs(t, store)

	updated, err := apis.Services.SerSetObjectStatus(operator(), "org1", "object1", model.ObjectStatusActive)
	assert.NoError(t, err)
	assert.Equal(t, model.ObjectStatusActive, updated.Status)
	assert.Equal(t, model.ObjectStatusActive, store.objects["org1"]["object1"].Status)

	_, err = apis.Services.SerSetObjectStatus(operator(), "org1", "object1", "archived")
	assert.Error(t, err)
}

func TestSerSetObjectStatusDeleteReleasesLimit(t *testing.T) {
	store := newFakeStorage()
	seedSystemConfig(store, model.LimitKeyContacts, int64(1))
	apis := newTestAPIs(t, store)

	contact := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact, Subtype: "person", Name: "Alice"}
	alice, exceeded, err := apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.Nil(t, exceeded)

	contact.Name = "Bob"
	_, exceeded, err = apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.NotNil(t, exceeded)

	//soft deleting a counted object frees its reserved slot
	_, err = apis.Services.SerSetObjectStatus(operator(), "org1", alice.ID, model.ObjectStatusDeleted)
	assert.NoError(t, err)

	bob, exceeded, err := apis.Services.SerCreateObject(operator(), contact)
	assert.NoError(t, err)
	assert.Nil(t, exceeded)
	assert.NotNil(t, bob)

	//restoring the deleted object needs a free slot again
	_, err = apis.Services.SerSetObjectStatus(operator(), "org1", alice.ID, model.ObjectStatusActive)
	assert.Error(t, err)
}

func TestStatusActionType(t *testing.T) {
	assert.Equal(t, model.ActionTypeApprove, statusActionType(model.ObjectStatusPending, model.ObjectStatusActive))
	assert.Equal(t, model.ActionTypePublish, statusActionType(model.ObjectStatusDraft, model.ObjectStatusActive))
	assert.Equal(t, model.ActionTypeStatusChange, statusActionType(model.ObjectStatusInactive, model.ObjectStatusActive))
	assert.Equal(t, model.ActionTypeStatusChange, statusActionType(model.ObjectStatusActive, model.ObjectStatusDeleted))
}

func TestSerReplaceLinks(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "set1", OrganizationID: "org1", Type: model.ObjectTypeTemplateSet,
		Subtype: "custom", Name: "My set", Status: model.ObjectStatusActive})
	store.links["org1"] = []model.Link{{ID: "old1", OrganizationID: "org1", FromObjectID: "set1",
		ToObjectID: "template-old", Type: model.LinkTypeIncludesTemplate}}
	apis := newTestAPIs(t, store)

	members := []model.LinkMember{
		{ToObjectID: "template-b", Properties: map[string]interface{}{model.LinkPropertyDisplayOrder: 1}},
		{ToObjectID: "template-a", Properties: map[string]interface{}{model.LinkPropertyDisplayOrder: 0}},
	}
	links, err := apis.Services.SerReplaceLinks(operator(), "org1", "set1", model.LinkTypeIncludesTemplate, members)
	assert.NoError(t, err)
	assert.Len(t, links, 2)
	//the old membership is gone, the new one comes back ordered
	assert.Equal(t, "template-a", links[0].ToObjectID)
	assert.Equal(t, "template-b", links[1].ToObjectID)
}

func TestSerReplaceLinksConcurrent(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "set1", OrganizationID: "org1", Type: model.ObjectTypeTemplateSet,
		Subtype: "custom", Name: "My set", Status: model.ObjectStatusActive})
	apis := newTestAPIs(t, store)

	first := []model.LinkMember{{ToObjectID: "template-a"}, {ToObjectID: "template-b"}}
	second := []model.LinkMember{{ToObjectID: "template-c"}}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, members := range [][]model.LinkMember{first, second} {
		wg.Add(1)
		go func(i int, members []model.LinkMember) {
			defer wg.Done()
			_, errs[i] = apis.Services.SerReplaceLinks(operator(), "org1", "set1", model.LinkTypeIncludesTemplate, members)
		}(i, members)
	}
	wg.Wait()
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])

	//the survivor is exactly one caller's set, never an interleaving
	links, err := store.FindLinksFrom(nil, "org1", "set1", model.LinkTypeIncludesTemplate)
	assert.NoError(t, err)
	targets := make([]string, len(links))
	for i, link := range links {
		targets[i] = link.ToObjectID
	}
	sort.Strings(targets)
	if len(targets) == 2 {
		assert.Equal(t, []string{"template-a", "template-b"}, targets)
	} else {
		assert.Equal(t, []string{"template-c"}, targets)
	}
}

func TestSerReplaceLinksRetriesOnConflict(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "set1", OrganizationID: "org1", Type: model.ObjectTypeTemplateSet,
		Subtype: "custom", Name: "My set", Status: model.ObjectStatusActive})
	store.replaceConflicts = 1
	apis := newTestAPIs(t, store)

	members := []model.LinkMember{{ToObjectID: "template-a"}}
	links, err := apis.Services.SerReplaceLinks(operator(), "org1", "set1", model.LinkTypeIncludesTemplate, members)
	assert.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestSerReplaceLinksConflictSurfaces(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "set1", OrganizationID: "org1", Type: model.ObjectTypeTemplateSet,
		Subtype: "custom", Name: "My set", Status: model.ObjectStatusActive})
	store.replaceConflicts = 2
	apis := newTestAPIs(t, store)

	//one retry only, a second overlap reaches the caller
	_, err := apis.Services.SerReplaceLinks(operator(), "org1", "set1", model.LinkTypeIncludesTemplate, nil)
	assert.Error(t, err)
	assert.True(t, model.IsConflict(err))
}

func TestSerReplaceLinksUnknownSource(t *testing.T) {
	apis := newTestAPIs(t, newFakeStorage())

	_, err := apis.Services.SerReplaceLinks(operator(), "org1", "missing", model.LinkTypeIncludesTemplate, nil)
	assert.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestSerResolveConfigPrecedence(t *testing.T) {
	store := newFakeStorage()
	seedSystemConfig(store, model.ConfigKeyTaxBehavior, "exclusive")

	//org1 overrides through a config object configuring its profile
	store.add(model.Object{ID: "profile1", OrganizationID: "org1", Type: model.ObjectTypeOrganization,
		Subtype: model.SubtypeProfile, Name: "Org One", Status: model.ObjectStatusActive})
	store.add(model.Object{ID: "override1", OrganizationID: "org1", Type: model.ObjectTypeConfig,
		Subtype: "override", Name: model.ConfigKeyTaxBehavior, Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{model.PropertyConfigValue: "inclusive"}})
	store.links["org1"] = []model.Link{{ID: "configures1", OrganizationID: "org1",
		FromObjectID: "override1", ToObjectID: "profile1", Type: model.LinkTypeConfigures}}
	apis := newTestAPIs(t, store)

	resolved, err := apis.Services.SerResolveConfig(operator(), "org1", model.ConfigKeyTaxBehavior, model.ChainOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "inclusive", resolved.Value)
	assert.Equal(t, "org1", resolved.Scope.OrganizationID)

	//a tenant without an override falls through to the system default
	resolved, err = apis.Services.SerResolveConfig(operator(), "org2", model.ConfigKeyTaxBehavior, model.ChainOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "exclusive", resolved.Value)
	assert.Equal(t, model.SystemOrgID, resolved.Scope.OrganizationID)
}

func TestSerResolveConfigNoDefault(t *testing.T) {
	apis := newTestAPIs(t, newFakeStorage())

	_, err := apis.Services.SerResolveConfig(operator(), "org1", "config.unseeded", model.ChainOptions{})
	assert.Error(t, err)
	assert.True(t, model.IsNoDefault(err))
}

func TestSerResolveConfigProductScope(t *testing.T) {
	store := newFakeStorage()
	seedSystemConfig(store, model.ConfigKeyTaxBehavior, "exclusive")
	store.add(model.Object{ID: "product1", OrganizationID: "org1", Type: model.ObjectTypeProduct,
		Subtype: "product", Name: "T-Shirt", Status: model.ObjectStatusActive})
	store.add(model.Object{ID: "override1", OrganizationID: "org1", Type: model.ObjectTypeConfig,
		Subtype: "override", Name: model.ConfigKeyTaxBehavior, Status: model.ObjectStatusActive,
		CustomProperties: map[string]interface{}{model.PropertyConfigValue: "exempt"}})
	store.links["org1"] = []model.Link{{ID: "configures1", OrganizationID: "org1",
		FromObjectID: "override1", ToObjectID: "product1", Type: model.LinkTypeConfigures}}
	apis := newTestAPIs(t, store)

	productID := "product1"
	resolved, err := apis.Services.SerResolveConfig(operator(), "org1", model.ConfigKeyTaxBehavior,
		model.ChainOptions{ProductID: &productID})
	assert.NoError(t, err)
	assert.Equal(t, "exempt", resolved.Value)
	assert.Equal(t, "product1", resolved.Scope.ID)

	//a named scope must exist
	missing := "missing"
	_, err = apis.Services.SerResolveConfig(operator(), "org1", model.ConfigKeyTaxBehavior,
		model.ChainOptions{ProductID: &missing})
	assert.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestSysSeedAndResolveTemplates(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	err := apis.System.SysSeed(operator())
	assert.NoError(t, err)

	//any tenant resolves the seeded default set through the system scope
	templates, err := apis.Services.SerResolveTemplates(operator(), "org1", nil, model.ChainOptions{})
	assert.NoError(t, err)
	assert.Len(t, templates, 2)
	assert.Equal(t, "email", templates[0].Subtype)
	assert.Equal(t, "pdf", templates[1].Subtype)

	//asking for one output narrows the set server side
	pdf := "pdf"
	templates, err = apis.Services.SerResolveTemplates(operator(), "org1", &pdf, model.ChainOptions{})
	assert.NoError(t, err)
	assert.Len(t, templates, 1)
	assert.Equal(t, "pdf", templates[0].Subtype)
}

func TestSysSeedIdempotent(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	err := apis.System.SysSeed(operator())
	assert.NoError(t, err)
	before := len(store.objects[model.SystemOrgID])

	err = apis.System.SysSeed(operator())
	assert.NoError(t, err)
	assert.Equal(t, before, len(store.objects[model.SystemOrgID]))
}

func TestSysSeedLimitsResolvable(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	err := apis.System.SysSeed(operator())
	assert.NoError(t, err)

	resolved, err := apis.Services.SerResolveConfig(operator(), "org1", model.LimitKeyContacts, model.ChainOptions{})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), resolved.Value)
}

func TestSysCreateOrganization(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	profile, err := apis.System.SysCreateOrganization(operator(), "Acme", "pro")
	assert.NoError(t, err)
	assert.Equal(t, "Acme", profile.Name)
	assert.NotEqual(t, model.SystemOrgID, profile.OrganizationID)

	organizations, err := apis.System.SysGetOrganizations(operator())
	assert.NoError(t, err)
	assert.Len(t, organizations, 1)

	_, err = apis.System.SysCreateOrganization(operator(), "Bad Plan Inc", "platinum")
	assert.Error(t, err)
	assert.True(t, model.IsSchemaViolation(err))
}

func TestSerGetObjectHistory(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Alice", Status: model.ObjectStatusActive})
	store.actions = []model.Action{
		{ID: "a1", OrganizationID: "org1", ObjectID: "object1", Type: model.ActionTypeCreate},
		{ID: "a2", OrganizationID: "org1", ObjectID: "object1", Type: model.ActionTypeUpdate},
		{ID: "a3", OrganizationID: "org2", ObjectID: "object1", Type: model.ActionTypeCreate},
	}
	apis := newTestAPIs(t, store)

	history, err := apis.Services.SerGetObjectHistory(operator(), "org1", "object1")
	assert.NoError(t, err)
	assert.Len(t, history, 2)

	//history never leaks across tenants
	_, err = apis.Services.SerGetObjectHistory(operator(), "org3", "object1")
	assert.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

//

func TestMemberPermissions(t *testing.T) {
	store := newFakeStorage()
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Alice", Status: model.ObjectStatusActive})
	seedMember(store, "org1", "reader", "member", []string{model.PermissionObjectsRead})
	apis := newTestAPIs(t, store)

	reader := model.Principal{ID: "reader"}
	found, err := apis.Services.SerGetObject(reader, "org1", "object1", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)

	//read only membership cannot write
	contact := model.Object{OrganizationID: "org1", Type: model.ObjectTypeContact, Subtype: "person", Name: "Bob"}
	_, _, err = apis.Services.SerCreateObject(reader, contact)
	assert.Error(t, err)
	assert.True(t, model.IsForbidden(err))

	//no membership at all is structural, not a denial
	_, err = apis.Services.SerGetObject(model.Principal{ID: "stranger"}, "org1", "object1", nil)
	assert.Error(t, err)
	assert.True(t, model.IsNoMembership(err))
}

func TestAdmCreateRole(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	role, err := apis.Administration.AdmCreateRole(operator(), "org1", "admin",
		[]string{model.PermissionObjectsRead, model.PermissionMembersManage})
	assert.NoError(t, err)
	assert.Equal(t, "admin", role.Name)
	assert.Equal(t, 2, role.CustomProperties["hierarchy"])

	grants, err := store.FindLinksFrom(nil, "org1", role.ID, model.LinkTypeGrants)
	assert.NoError(t, err)
	assert.Len(t, grants, 2)

	//unknown hierarchy names are rejected
	_, err = apis.Administration.AdmCreateRole(operator(), "org1", "intern", nil)
	assert.Error(t, err)

	//one role object per name and organization
	_, err = apis.Administration.AdmCreateRole(operator(), "org1", "admin", nil)
	assert.Error(t, err)
}

func TestAdmSetMembership(t *testing.T) {
	store := newFakeStorage()
	apis := newTestAPIs(t, store)

	role, err := apis.Administration.AdmCreateRole(operator(), "org1", "member", []string{model.PermissionObjectsRead})
	assert.NoError(t, err)

	membership, err := apis.Administration.AdmSetMembership(operator(), "org1", "alice", role.ID, model.MembershipStatusActive)
	assert.NoError(t, err)
	assert.Equal(t, "alice", membership.Name)

	//the new member can read now
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Contact", Status: model.ObjectStatusActive})
	_, err = apis.Services.SerGetObject(model.Principal{ID: "alice"}, "org1", "object1", nil)
	assert.NoError(t, err)
}

func TestAdmSetMembershipOutranks(t *testing.T) {
	store := newFakeStorage()
	seedMember(store, "org1", "actor", "manager", []string{model.PermissionMembersManage})
	store.add(model.Object{ID: "role-owner", OrganizationID: "org1", Type: model.ObjectTypeRole,
		Subtype: "role", Name: "owner", Status: model.ObjectStatusActive})
	store.add(model.Object{ID: "role-junior", OrganizationID: "org1", Type: model.ObjectTypeRole,
		Subtype: "role", Name: "member", Status: model.ObjectStatusActive})
	apis := newTestAPIs(t, store)

	actor := model.Principal{ID: "actor"}

	//a manager may not hand out a senior role
	_, err := apis.Administration.AdmSetMembership(actor, "org1", "bob", "role-owner", model.MembershipStatusActive)
	assert.Error(t, err)
	assert.True(t, model.IsForbidden(err))

	//junior roles are fine
	_, err = apis.Administration.AdmSetMembership(actor, "org1", "bob", "role-junior", model.MembershipStatusActive)
	assert.NoError(t, err)
}

func TestAdmRevokeMembership(t *testing.T) {
	store := newFakeStorage()
	seedMember(store, "org1", "alice", "member", []string{model.PermissionObjectsRead})
	apis := newTestAPIs(t, store)

	err := apis.Administration.AdmRevokeMembership(operator(), "org1", "alice")
	assert.NoError(t, err)

	//the record stays, permissions are gone
	store.add(model.Object{ID: "object1", OrganizationID: "org1", Type: model.ObjectTypeContact,
		Subtype: "person", Name: "Contact", Status: model.ObjectStatusActive})
	allowed, err := apis.app.evaluator.CanPerform(model.Principal{ID: "alice"}, "org1", model.PermissionObjectsRead)
	assert.NoError(t, err)
	assert.False(t, allowed)

	err = apis.Administration.AdmRevokeMembership(operator(), "org1", "ghost")
	assert.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}
