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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertAction appends an action record. Actions are never updated or
// deleted.
func (sa *Adapter) InsertAction(context TransactionContext, item model.Action) error {
	stgAction := actionToStorage(item)
	_, err := sa.db.actions.InsertOneWithContext(context, stgAction)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeAction, &logutils.FieldArgs{"_id": item.ID}, err)
	}
	return nil
}

// FindActions lists the actions recorded for an object, oldest first
func (sa *Adapter) FindActions(orgID string, objectID string) ([]model.Action, error) {
	filter := bson.M{"org_id": orgID, "object_id": objectID}
	findOptions := options.Find().SetSort(bson.D{primitive.E{Key: "date_performed", Value: 1}})

	var result []action
	err := sa.db.actions.Find(filter, &result, findOptions)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAction, &logutils.FieldArgs{"org_id": orgID, "object_id": objectID}, err)
	}

	items := make([]model.Action, len(result))
	for i, item := range result {
		items[i] = actionFromStorage(item)
	}
	return items, nil
}
