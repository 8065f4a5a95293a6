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
	"strconv"
	"sync"
	"time"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/syncmap"
)

// Adapter implements the Storage interface on MongoDB
type Adapter struct {
	db     *database
	logger *logs.Logger

	//composite replacements for one source object must serialize, never
	//interleave their delete/insert halves
	replaceLocks *syncmap.Map

	cachedSystemConfigs *syncmap.Map
	systemConfigsLock   sync.RWMutex
	systemConfigsDirty  bool
}

// TransactionContext wraps a mongo session for callers outside this package
type TransactionContext interface {
	mongo.SessionContext
}

// Start starts the storage adapter
func (sa *Adapter) Start() error {
	err := sa.db.start()
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInitialize, "storage adapter", nil, err)
	}

	err = sa.cacheSystemConfigs()
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionLoadCache, "system configs", nil, err)
	}

	return nil
}

// PerformTransaction performs a transaction
func (sa *Adapter) PerformTransaction(transaction func(context TransactionContext) error) error {
	err := sa.db.dbClient.UseSession(context.Background(), func(sessionContext mongo.SessionContext) error {
		err := sessionContext.StartTransaction()
		if err != nil {
			sa.abortTransaction(sessionContext)
			return errors.WrapErrorAction(logutils.ActionStart, logutils.TypeTransaction, nil, err)
		}

		err = transaction(sessionContext)
		if err != nil {
			sa.abortTransaction(sessionContext)
			return errors.WrapErrorAction("performing", logutils.TypeTransaction, nil, err)
		}

		err = sessionContext.CommitTransaction(sessionContext)
		if err != nil {
			sa.abortTransaction(sessionContext)
			return errors.WrapErrorAction(logutils.ActionCommit, logutils.TypeTransaction, nil, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	//a find inside the session cannot see the session's own uncommitted
	//writes, so system config writes only mark the cache dirty and the
	//reload runs here, once the commit is visible
	if sa.takeSystemConfigsDirty() {
		err = sa.cacheSystemConfigs()
		if err != nil {
			sa.logger.Errorf("error reloading system configs cache - %s", err)
		}
	}
	return nil
}

func (sa *Adapter) abortTransaction(sessionContext mongo.SessionContext) {
	err := sessionContext.AbortTransaction(sessionContext)
	if err != nil {
		sa.logger.Errorf("error aborting a transaction - %s", err)
	}
}

// replaceLock gives the serialization lock for one (source, linkType)
// replacement unit
func (sa *Adapter) replaceLock(orgID string, fromObjectID string, linkType string) *sync.Mutex {
	key := orgID + "/" + fromObjectID + "/" + linkType
	item, _ := sa.replaceLocks.LoadOrStore(key, &sync.Mutex{})
	return item.(*sync.Mutex)
}

// NewStorageAdapter creates a new storage adapter instance
func NewStorageAdapter(mongoDBAuth string, mongoDBName string, mongoTimeout string, logger *logs.Logger) *Adapter {
	timeoutInt, err := strconv.Atoi(mongoTimeout)
	if err != nil {
		logger.Warn("Setting default Mongo timeout - 2000")
		timeoutInt = 2000
	}
	timeout := time.Millisecond * time.Duration(timeoutInt)

	db := &database{mongoDBAuth: mongoDBAuth, mongoDBName: mongoDBName, mongoTimeout: timeout, logger: logger}
	return &Adapter{db: db, logger: logger, replaceLocks: &syncmap.Map{}, cachedSystemConfigs: &syncmap.Map{}}
}
