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
	"sort"

	"platform-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
)

// FindLinksFrom lists the links of a type leaving an object, ordered by their
// display_order property when present
func (sa *Adapter) FindLinksFrom(context TransactionContext, orgID string, fromObjectID string, linkType string) ([]model.Link, error) {
	filter := bson.M{"org_id": orgID, "from_object_id": fromObjectID, "type": linkType}

	var result []link
	err := sa.db.links.FindWithContext(context, filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLink, &logutils.FieldArgs{"org_id": orgID, "from_object_id": fromObjectID, "type": linkType}, err)
	}

	items := linksFromStorage(result)
	sortLinksByDisplayOrder(items)
	return items, nil
}

// FindLinksTo lists the links of a type arriving at an object
func (sa *Adapter) FindLinksTo(context TransactionContext, orgID string, toObjectID string, linkType string) ([]model.Link, error) {
	filter := bson.M{"org_id": orgID, "to_object_id": toObjectID, "type": linkType}

	var result []link
	err := sa.db.links.FindWithContext(context, filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLink, &logutils.FieldArgs{"org_id": orgID, "to_object_id": toObjectID, "type": linkType}, err)
	}

	items := linksFromStorage(result)
	sortLinksByDisplayOrder(items)
	return items, nil
}

// InsertLink inserts a link after verifying both endpoints exist in the same
// organization and the duplicate policy for the link type allows it
func (sa *Adapter) InsertLink(context TransactionContext, item model.Link) error {
	err := sa.checkLinkEndpoints(context, item)
	if err != nil {
		return err
	}

	if !model.LinkTypeAllowsDuplicates(item.Type) {
		filter := bson.M{"org_id": item.OrganizationID, "from_object_id": item.FromObjectID,
			"to_object_id": item.ToObjectID, "type": item.Type}
		count, err := sa.db.links.CountDocumentsWithContext(context, filter)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionCount, model.TypeLink, nil, err)
		}
		if count > 0 {
			return errors.ErrorData(logutils.StatusInvalid, model.TypeLink,
				&logutils.FieldArgs{"from_object_id": item.FromObjectID, "to_object_id": item.ToObjectID, "type": item.Type, "duplicate": true})
		}
	}

	stgLink := linkToStorage(item)
	_, err = sa.db.links.InsertOneWithContext(context, stgLink)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeLink, &logutils.FieldArgs{"_id": item.ID}, err)
	}
	return nil
}

// DeleteLinksFrom removes all links of a type leaving an object. Returns the
// number of removed links.
func (sa *Adapter) DeleteLinksFrom(context TransactionContext, orgID string, fromObjectID string, linkType string) (int64, error) {
	filter := bson.M{"org_id": orgID, "from_object_id": fromObjectID, "type": linkType}

	result, err := sa.db.links.DeleteManyWithContext(context, filter, nil)
	if err != nil {
		return 0, errors.WrapErrorAction(logutils.ActionDelete, model.TypeLink, &logutils.FieldArgs{"org_id": orgID, "from_object_id": fromObjectID, "type": linkType}, err)
	}
	return result.DeletedCount, nil
}

// ReplaceLinks atomically swaps the whole set of links of a type leaving an
// object for a new set. A concurrent replacement of the same unit surfaces
// as a conflict, never as an interleaved mix of the two sets.
func (sa *Adapter) ReplaceLinks(orgID string, fromObjectID string, linkType string, newLinks []model.Link) error {
	lock := sa.replaceLock(orgID, fromObjectID, linkType)
	if !lock.TryLock() {
		return &model.ConflictError{FromObjectID: fromObjectID, LinkType: linkType}
	}
	defer lock.Unlock()

	transaction := func(context TransactionContext) error {
		_, err := sa.DeleteLinksFrom(context, orgID, fromObjectID, linkType)
		if err != nil {
			return err
		}

		if len(newLinks) == 0 {
			return nil
		}

		documents := make([]interface{}, len(newLinks))
		for i, item := range newLinks {
			err = sa.checkLinkEndpoints(context, item)
			if err != nil {
				return err
			}
			documents[i] = linkToStorage(item)
		}

		_, err = sa.db.links.InsertManyWithContext(context, documents, nil)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionInsert, model.TypeLink, &logutils.FieldArgs{"from_object_id": fromObjectID, "type": linkType}, err)
		}
		return nil
	}

	return sa.PerformTransaction(transaction)
}

// checkLinkEndpoints verifies both link endpoints are objects in the link's
// organization. Links never cross organizations.
func (sa *Adapter) checkLinkEndpoints(context TransactionContext, item model.Link) error {
	filter := bson.M{"org_id": item.OrganizationID, "_id": bson.M{"$in": []string{item.FromObjectID, item.ToObjectID}}}
	count, err := sa.db.objects.CountDocumentsWithContext(context, filter)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionCount, model.TypeObject, nil, err)
	}

	expected := int64(2)
	if item.FromObjectID == item.ToObjectID {
		expected = 1
	}
	if count < expected {
		return errors.ErrorData(logutils.StatusMissing, model.TypeObject,
			&logutils.FieldArgs{"org_id": item.OrganizationID, "from_object_id": item.FromObjectID, "to_object_id": item.ToObjectID})
	}
	return nil
}

func sortLinksByDisplayOrder(items []model.Link) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder() < items[j].DisplayOrder()
	})
}
