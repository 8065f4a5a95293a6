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
	"platform-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/syncmap"
)

// The system organization's config objects terminate every precedence chain,
// so they sit on every resolution path. They are small and change rarely,
// which makes them the one read the adapter serves from memory. A write to a
// system config object marks the cache dirty; the reload runs after the
// enclosing transaction commits.

func (sa *Adapter) cacheSystemConfigs() error {
	sa.logger.Info("cacheSystemConfigs..")

	configs, err := sa.loadSystemConfigs()
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeObject, &logutils.FieldArgs{"org_id": model.SystemOrgID, "type": model.ObjectTypeConfig}, err)
	}

	sa.setCachedSystemConfigs(configs)
	return nil
}

func (sa *Adapter) loadSystemConfigs() ([]model.Object, error) {
	filter := bson.M{"org_id": model.SystemOrgID, "type": model.ObjectTypeConfig}

	var result []object
	err := sa.db.objects.Find(filter, &result, nil)
	if err != nil {
		return nil, err
	}
	return objectsFromStorage(result), nil
}

func (sa *Adapter) setCachedSystemConfigs(configs []model.Object) {
	sa.systemConfigsLock.Lock()
	defer sa.systemConfigsLock.Unlock()

	sa.cachedSystemConfigs = &syncmap.Map{}
	for _, config := range configs {
		if config.Status != model.ObjectStatusActive {
			continue
		}
		sa.cachedSystemConfigs.Store(config.Name, config)
	}
}

func (sa *Adapter) getCachedSystemConfig(key string) *model.Object {
	sa.systemConfigsLock.RLock()
	defer sa.systemConfigsLock.RUnlock()

	item, found := sa.cachedSystemConfigs.Load(key)
	if !found {
		return nil
	}
	config := item.(model.Object)
	return &config
}

// FindSystemConfig gives the active system config object named by key, from
// cache. Nil when the system defines no value for the key.
func (sa *Adapter) FindSystemConfig(key string) (*model.Object, error) {
	return sa.getCachedSystemConfig(key), nil
}

// invalidateSystemConfigsIfNeeded marks the cache dirty after a write that
// could change a system config object. The write runs inside a session and a
// session read cannot see its own uncommitted documents, so the reload must
// wait for the commit; PerformTransaction consumes the mark.
func (sa *Adapter) invalidateSystemConfigsIfNeeded(item model.Object) {
	if item.OrganizationID != model.SystemOrgID || item.Type != model.ObjectTypeConfig {
		return
	}
	sa.markSystemConfigsDirty()
}

func (sa *Adapter) markSystemConfigsDirty() {
	sa.systemConfigsLock.Lock()
	defer sa.systemConfigsLock.Unlock()

	sa.systemConfigsDirty = true
}

// takeSystemConfigsDirty reads and clears the dirty mark
func (sa *Adapter) takeSystemConfigsDirty() bool {
	sa.systemConfigsLock.Lock()
	defer sa.systemConfigsLock.Unlock()

	dirty := sa.systemConfigsDirty
	sa.systemConfigsDirty = false
	return dirty
}

// FindTranslations reads the values of the given translation objects for one
// locale in one query. Keys without a stored value are simply absent from
// the result.
func (sa *Adapter) FindTranslations(orgID string, keys []string, locale string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	filter := bson.M{"org_id": orgID, "type": model.ObjectTypeTranslation,
		"name": bson.M{"$in": keys}, "locale": locale, "status": model.ObjectStatusActive}

	var result []object
	err := sa.db.objects.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTranslation, &logutils.FieldArgs{"org_id": orgID, "locale": locale}, err)
	}

	values := make(map[string]string, len(result))
	for _, item := range result {
		translation := objectFromStorage(item)
		value, ok := translation.PropertyString(model.PropertyConfigValue)
		if !ok {
			continue
		}
		values[translation.Name] = value
	}
	return values, nil
}
