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
	"errors"
	"fmt"
)

// NotFoundError reports an absent object or link. A cross tenant read gets
// the same error as a truly missing id - the existence of another tenant's
// object must not leak.
type NotFoundError struct {
	DataType string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.DataType, e.ID)
}

// SchemaNotRegisteredError reports a write against a (type, subtype) pair
// with no registered variant schema. This is a programming error, not a
// runtime recoverable condition.
type SchemaNotRegisteredError struct {
	ObjectType string
	Subtype    string
}

func (e *SchemaNotRegisteredError) Error() string {
	return fmt.Sprintf("no schema registered for %s/%s", e.ObjectType, e.Subtype)
}

// SchemaViolationError reports customProperties failing the registered
// variant schema. Rejected before write, never partially applied.
type SchemaViolationError struct {
	ObjectType string
	Subtype    string
	Reason     string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("custom properties violate schema %s/%s: %s", e.ObjectType, e.Subtype, e.Reason)
}

// NoDefaultError reports a precedence chain exhausted without any scope,
// including system, defining the key. It indicates a missing system default
// seed and is a deployment defect surfaced loudly.
type NoDefaultError struct {
	Key string
}

func (e *NoDefaultError) Error() string {
	return fmt.Sprintf("no scope defines key %s and no system default exists", e.Key)
}

// ConflictError reports an overlapping in-flight composite replacement for
// the same source object. Callers retry once, then surface it.
type ConflictError struct {
	FromObjectID string
	LinkType     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent link replacement in flight for %s/%s", e.FromObjectID, e.LinkType)
}

// NoMembershipError reports a permission check for a principal holding no
// membership record and no global role - a data integrity error, not a
// normal denial.
type NoMembershipError struct {
	OrganizationID string
	PrincipalID    string
}

func (e *NoMembershipError) Error() string {
	return fmt.Sprintf("principal %s has no membership in organization %s", e.PrincipalID, e.OrganizationID)
}

// ForbiddenError reports a permission check that evaluated to "not
// permitted". Distinct from NoMembershipError, which is structural.
type ForbiddenError struct {
	PrincipalID    string
	OrganizationID string
	Permission     string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("principal %s may not %s in organization %s", e.PrincipalID, e.Permission, e.OrganizationID)
}

// IsNotFound says whether the error chain contains a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict says whether the error chain contains a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNoDefault says whether the error chain contains a NoDefaultError
func IsNoDefault(err error) bool {
	var target *NoDefaultError
	return errors.As(err, &target)
}

// IsSchemaViolation says whether the error chain contains a
// SchemaViolationError
func IsSchemaViolation(err error) bool {
	var target *SchemaViolationError
	return errors.As(err, &target)
}

// IsSchemaNotRegistered says whether the error chain contains a
// SchemaNotRegisteredError
func IsSchemaNotRegistered(err error) bool {
	var target *SchemaNotRegisteredError
	return errors.As(err, &target)
}

// IsNoMembership says whether the error chain contains a NoMembershipError
func IsNoMembership(err error) bool {
	var target *NoMembershipError
	return errors.As(err, &target)
}

// IsForbidden says whether the error chain contains a ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}
