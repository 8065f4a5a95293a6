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

package model

import (
	"fmt"
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeAction ...
	TypeAction logutils.MessageDataType = "action"
)

// Action types
const (
	ActionTypeCreate       string = "create"
	ActionTypeUpdate       string = "update"
	ActionTypeStatusChange string = "status_change"
	ActionTypeReplaceLinks string = "replace_links"
	ActionTypeApprove      string = "approve"
	ActionTypePublish      string = "publish"
	ActionTypeSeed         string = "seed"
)

// Action is an append-only audit record of a mutation against an object.
// Actions are never updated or deleted by application code and are never
// read back by the mutation path itself.
type Action struct {
	ID             string
	OrganizationID string
	ObjectID       string
	Type           string

	Data map[string]interface{}

	PerformedBy   string
	DatePerformed time.Time
}

func (a Action) String() string {
	return fmt.Sprintf("[ID:%s\tObject:%s\tType:%s\tBy:%s]", a.ID, a.ObjectID, a.Type, a.PerformedBy)
}
