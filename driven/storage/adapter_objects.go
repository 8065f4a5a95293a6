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
	"time"

	"platform-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// objectQueryPrefixes lists the composite indexes the objects collection
// carries, in key order. Every listing filter the adapter builds must match
// a prefix of one of them, otherwise the query is rejected instead of being
// handed to mongo as a collection scan.
var objectQueryPrefixes = [][]string{
	{"org_id", "type", "subtype", "status"},
	{"org_id", "type", "name", "locale"},
	{"org_id", "type", "name"},
	{"type", "subtype"},
}

func queryKeysIndexed(keys []string) bool {
	for _, prefix := range objectQueryPrefixes {
		if len(keys) > len(prefix) {
			continue
		}
		matches := true
		for i, key := range keys {
			if prefix[i] != key {
				matches = false
				break
			}
		}
		if matches {
			return true
		}
	}
	return false
}

// FindObject finds an object by id within an organization
func (sa *Adapter) FindObject(context TransactionContext, orgID string, id string) (*model.Object, error) {
	filter := bson.M{"_id": id, "org_id": orgID}

	var result []object
	err := sa.db.objects.FindWithContext(context, filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeObject, &logutils.FieldArgs{"_id": id, "org_id": orgID}, err)
	}
	if len(result) == 0 {
		return nil, nil
	}

	item := objectFromStorage(result[0])
	return &item, nil
}

// FindObjectByTypeName finds the object with the given type and name within
// an organization. Memberships, domains and translations are addressed this
// way, by name rather than by id.
func (sa *Adapter) FindObjectByTypeName(context TransactionContext, orgID string, objectType string, name string) (*model.Object, error) {
	filter := bson.M{"org_id": orgID, "type": objectType, "name": name}

	var result []object
	err := sa.db.objects.FindWithContext(context, filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeObject, &logutils.FieldArgs{"org_id": orgID, "type": objectType, "name": name}, err)
	}
	if len(result) == 0 {
		return nil, nil
	}

	item := objectFromStorage(result[0])
	return &item, nil
}

// FindMembershipObject finds the membership record for a principal within an
// organization. The membership object is named by the principal id.
func (sa *Adapter) FindMembershipObject(context TransactionContext, orgID string, principalID string) (*model.Object, error) {
	return sa.FindObjectByTypeName(context, orgID, model.ObjectTypeMember, principalID)
}

// FindObjects lists objects of a type within an organization, optionally
// narrowed by subtype and statuses. The filter shape is checked against the
// registered index prefixes before it runs.
func (sa *Adapter) FindObjects(context TransactionContext, orgID string, objectType string, subtype *string, statuses []string) ([]model.Object, error) {
	filter := bson.M{"org_id": orgID, "type": objectType}
	keys := []string{"org_id", "type"}
	if subtype != nil {
		filter["subtype"] = *subtype
		keys = append(keys, "subtype")
	}
	if len(statuses) > 0 {
		if subtype == nil {
			//the status key is only reachable through the subtype key
			filter["subtype"] = bson.M{"$exists": true}
			keys = append(keys, "subtype")
		}
		filter["status"] = bson.M{"$in": statuses}
		keys = append(keys, "status")
	}

	if !queryKeysIndexed(keys) {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeObjectQuery, &logutils.FieldArgs{"keys": keys})
	}

	var result []object
	err := sa.db.objects.FindWithContext(context, filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeObject, &logutils.FieldArgs{"org_id": orgID, "type": objectType}, err)
	}
	return objectsFromStorage(result), nil
}

// FindObjectsByTypeSubtype lists objects across all organizations by type and
// subtype. This is the system surface, for example all active licenses.
func (sa *Adapter) FindObjectsByTypeSubtype(objectType string, subtype string) ([]model.Object, error) {
	filter := bson.M{"type": objectType, "subtype": subtype}

	var result []object
	err := sa.db.objects.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeObject, &logutils.FieldArgs{"type": objectType, "subtype": subtype}, err)
	}
	return objectsFromStorage(result), nil
}

// InsertObject inserts an object. For singleton type/subtype pairs it first
// verifies no other instance exists in the organization, which is only safe
// inside a transaction.
func (sa *Adapter) InsertObject(context TransactionContext, item model.Object) error {
	if model.IsSingleton(item.Type, item.Subtype) {
		filter := bson.M{"org_id": item.OrganizationID, "type": item.Type, "subtype": item.Subtype}
		count, err := sa.db.objects.CountDocumentsWithContext(context, filter)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionCount, model.TypeObject, &logutils.FieldArgs{"org_id": item.OrganizationID, "type": item.Type, "subtype": item.Subtype}, err)
		}
		if count > 0 {
			return errors.ErrorData(logutils.StatusInvalid, model.TypeObject,
				&logutils.FieldArgs{"org_id": item.OrganizationID, "type": item.Type, "subtype": item.Subtype, "singleton": true})
		}
	}

	stgObject := objectToStorage(item)
	_, err := sa.db.objects.InsertOneWithContext(context, stgObject)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeObject, &logutils.FieldArgs{"_id": item.ID}, err)
	}

	sa.invalidateSystemConfigsIfNeeded(item)
	return nil
}

// UpdateObject replaces an object document
func (sa *Adapter) UpdateObject(context TransactionContext, item model.Object) error {
	filter := bson.M{"_id": item.ID, "org_id": item.OrganizationID}

	stgObject := objectToStorage(item)
	err := sa.db.objects.ReplaceOneWithContext(context, filter, stgObject, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeObject, &logutils.FieldArgs{"_id": item.ID}, err)
	}

	sa.invalidateSystemConfigsIfNeeded(item)
	return nil
}

// UpdateObjectStatus transitions an object to a new status
func (sa *Adapter) UpdateObjectStatus(context TransactionContext, orgID string, id string, status string) error {
	filter := bson.M{"_id": id, "org_id": orgID}
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"status": status, "date_updated": now}}

	result, err := sa.db.objects.UpdateOneWithContext(context, filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeObject, &logutils.FieldArgs{"_id": id, "org_id": orgID}, err)
	}
	if result.MatchedCount == 0 {
		return &model.NotFoundError{DataType: string(model.TypeObject), ID: id}
	}

	if orgID == model.SystemOrgID {
		sa.markSystemConfigsDirty()
	}
	return nil
}

// EnsureCounter makes sure a counter document exists for the given key
func (sa *Adapter) EnsureCounter(context TransactionContext, orgID string, key string, id string) error {
	filter := bson.M{"org_id": orgID, "key": key}
	update := bson.M{"$setOnInsert": bson.M{"_id": id, "count": int64(0)}}
	opts := options.Update().SetUpsert(true)

	_, err := sa.db.counters.UpdateOneWithContext(context, filter, update, opts)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeCounter, &logutils.FieldArgs{"org_id": orgID, "key": key}, err)
	}
	return nil
}

// IncrementCounterWithLimit reserves one slot under a limit. The filter only
// matches while the count is below the limit, so the check and the increment
// are a single document operation. Returns whether the reservation succeeded
// and the current count.
func (sa *Adapter) IncrementCounterWithLimit(context TransactionContext, orgID string, key string, limit int64) (bool, int64, error) {
	filter := bson.M{"org_id": orgID, "key": key, "count": bson.M{"$lt": limit}}
	update := bson.M{"$inc": bson.M{"count": int64(1)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated counter
	err := sa.db.counters.FindOneAndUpdateWithContext(context, filter, update, &updated, opts)
	if err == nil {
		return true, updated.Count, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, 0, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeCounter, &logutils.FieldArgs{"org_id": orgID, "key": key}, err)
	}

	//no slot left, report the current count
	current, err := sa.GetCounter(context, orgID, key)
	if err != nil {
		return false, 0, err
	}
	return false, current, nil
}

// DecrementCounter releases one reserved slot, when the object holding the
// reservation is soft deleted. The filter keeps the count from going below
// zero for types that never reserved.
func (sa *Adapter) DecrementCounter(context TransactionContext, orgID string, key string) error {
	filter := bson.M{"org_id": orgID, "key": key, "count": bson.M{"$gt": int64(0)}}
	update := bson.M{"$inc": bson.M{"count": int64(-1)}}

	_, err := sa.db.counters.UpdateOneWithContext(context, filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeCounter, &logutils.FieldArgs{"org_id": orgID, "key": key}, err)
	}
	return nil
}

// GetCounter reads the current count for a key
func (sa *Adapter) GetCounter(context TransactionContext, orgID string, key string) (int64, error) {
	filter := bson.M{"org_id": orgID, "key": key}

	var result []counter
	err := sa.db.counters.FindWithContext(context, filter, &result, nil)
	if err != nil {
		return 0, errors.WrapErrorAction(logutils.ActionFind, model.TypeCounter, &logutils.FieldArgs{"org_id": orgID, "key": key}, err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Count, nil
}
