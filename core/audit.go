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
	"time"

	"platform-building-block/core/model"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/logs"
)

// auditLogger appends action records off the mutation path. Recording never
// blocks or fails a mutation: when the queue is full or the insert fails the
// action is written to the service log instead, so the record is degraded
// but never silently lost.
type auditLogger struct {
	storage Storage
	logger  *logs.Logger
	queue   chan model.Action
}

func newAuditLogger(storage Storage, logger *logs.Logger) *auditLogger {
	return &auditLogger{storage: storage, logger: logger, queue: make(chan model.Action, 256)}
}

func (a *auditLogger) start() {
	go a.worker()
}

// record queues one action for appending
func (a *auditLogger) record(orgID string, objectID string, actionType string, performedBy string, data map[string]interface{}) {
	item := model.Action{ID: uuid.NewString(), OrganizationID: orgID, ObjectID: objectID,
		Type: actionType, Data: data, PerformedBy: performedBy, DatePerformed: time.Now().UTC()}

	select {
	case a.queue <- item:
	default:
		a.deadLetter(item, nil)
	}
}

func (a *auditLogger) worker() {
	for item := range a.queue {
		err := a.storage.InsertAction(nil, item)
		if err != nil {
			a.deadLetter(item, err)
		}
	}
}

func (a *auditLogger) deadLetter(item model.Action, err error) {
	if err != nil {
		a.logger.Errorf("audit record dropped %s - %s", item, err)
		return
	}
	a.logger.Errorf("audit record dropped, queue full %s", item)
}
