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
	"context"
	"time"

	"github.com/rokwire/logging-library-go/v2/logs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type database struct {
	mongoDBAuth  string
	mongoDBName  string
	mongoTimeout time.Duration

	db       *mongo.Database
	dbClient *mongo.Client

	objects  *collectionWrapper
	links    *collectionWrapper
	actions  *collectionWrapper
	counters *collectionWrapper

	logger *logs.Logger
}

func (d *database) start() error {
	d.logger.Info("database -> start")

	clientOptions := options.Client().ApplyURI(d.mongoDBAuth)
	connectContext, cancel := context.WithTimeout(context.Background(), d.mongoTimeout)
	client, err := mongo.Connect(connectContext, clientOptions)
	cancel()
	if err != nil {
		return err
	}

	pingContext, cancel := context.WithTimeout(context.Background(), d.mongoTimeout)
	err = client.Ping(pingContext, nil)
	cancel()
	if err != nil {
		return err
	}

	db := client.Database(d.mongoDBName)

	objects := &collectionWrapper{database: d, coll: db.Collection("objects")}
	err = d.applyObjectsChecks(objects)
	if err != nil {
		return err
	}

	links := &collectionWrapper{database: d, coll: db.Collection("links")}
	err = d.applyLinksChecks(links)
	if err != nil {
		return err
	}

	actions := &collectionWrapper{database: d, coll: db.Collection("actions")}
	err = d.applyActionsChecks(actions)
	if err != nil {
		return err
	}

	counters := &collectionWrapper{database: d, coll: db.Collection("counters")}
	err = d.applyCountersChecks(counters)
	if err != nil {
		return err
	}

	d.db = db
	d.dbClient = client
	d.objects = objects
	d.links = links
	d.actions = actions
	d.counters = counters

	return nil
}

// The composite indexes below are the contract behind every hot query path.
// A query whose filter does not match a registered prefix is rejected by the
// adapter before it reaches mongo - see objectQueryIndexes.
func (d *database) applyObjectsChecks(objects *collectionWrapper) error {
	d.logger.Info("apply objects checks.....")

	//per-org per-type listing, with subtype and status refinements
	err := objects.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "type", Value: 1},
		primitive.E{Key: "subtype", Value: 1}, primitive.E{Key: "status", Value: 1}}, false)
	if err != nil {
		return err
	}

	//translation lookup by (org, name, locale)
	err = objects.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "type", Value: 1},
		primitive.E{Key: "name", Value: 1}, primitive.E{Key: "locale", Value: 1}}, false)
	if err != nil {
		return err
	}

	//name lookup within a type (memberships, domains, singletons)
	err = objects.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "type", Value: 1},
		primitive.E{Key: "name", Value: 1}}, false)
	if err != nil {
		return err
	}

	//cross-org listing by type/subtype, system surface only
	err = objects.AddIndex(bson.D{primitive.E{Key: "type", Value: 1}, primitive.E{Key: "subtype", Value: 1}}, false)
	if err != nil {
		return err
	}

	d.logger.Info("objects checks passed")
	return nil
}

func (d *database) applyLinksChecks(links *collectionWrapper) error {
	d.logger.Info("apply links checks.....")

	err := links.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "from_object_id", Value: 1},
		primitive.E{Key: "type", Value: 1}}, false)
	if err != nil {
		return err
	}

	err = links.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "to_object_id", Value: 1},
		primitive.E{Key: "type", Value: 1}}, false)
	if err != nil {
		return err
	}

	d.logger.Info("links checks passed")
	return nil
}

func (d *database) applyActionsChecks(actions *collectionWrapper) error {
	d.logger.Info("apply actions checks.....")

	err := actions.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "object_id", Value: 1},
		primitive.E{Key: "date_performed", Value: 1}}, false)
	if err != nil {
		return err
	}

	d.logger.Info("actions checks passed")
	return nil
}

func (d *database) applyCountersChecks(counters *collectionWrapper) error {
	d.logger.Info("apply counters checks.....")

	//one counter per (org, key)
	err := counters.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "key", Value: 1}}, true)
	if err != nil {
		return err
	}

	d.logger.Info("counters checks passed")
	return nil
}
