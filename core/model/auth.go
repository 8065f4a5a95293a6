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
	"os"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"gopkg.in/yaml.v2"
)

const (
	//TypeRole ...
	TypeRole logutils.MessageDataType = "role"
	//TypePermission ...
	TypePermission logutils.MessageDataType = "permission"
	//TypeMembership ...
	TypeMembership logutils.MessageDataType = "organization membership"
	//TypePrincipal ...
	TypePrincipal logutils.MessageDataType = "principal"
	//TypeRoleHierarchy ...
	TypeRoleHierarchy logutils.MessageDataType = "role hierarchy"
)

// RoleSystemAdmin is the global hierarchy role carried by system scoped
// tokens and by the startup seeding principal
const RoleSystemAdmin string = "system_admin"

// Membership statuses
const (
	MembershipStatusActive   string = "active"
	MembershipStatusPending  string = "pending"
	MembershipStatusInactive string = "inactive"
)

// Permission names checked at the start of every mutation path
const (
	PermissionObjectsRead   string = "objects.read"
	PermissionObjectsWrite  string = "objects.write"
	PermissionMembersManage string = "members.manage"
	PermissionSystemManage  string = "system.manage"
)

// Membership custom property keys
const (
	PropertyRoleID      string = "role_id"
	PropertyStatus      string = "status"
	PropertyGlobalRole  string = "global_role"
	PropertyHierarchy   string = "hierarchy"
	PropertyConfigValue string = "value"
)

// Principal is the authenticated caller of an operation. GlobalRole is set
// when the caller holds a role directly, not via organization membership -
// such a principal bypasses every per organization permission check.
type Principal struct {
	ID         string
	GlobalRole *string
}

func (p Principal) String() string {
	return fmt.Sprintf("[ID:%s\tGlobal:%v]", p.ID, p.GlobalRole != nil)
}

// Membership is the typed view over an organization_member object
type Membership struct {
	ObjectID       string
	OrganizationID string
	PrincipalID    string
	RoleID         string
	Status         string
}

// MembershipFromObject builds the typed membership view from its backing
// object
func MembershipFromObject(object Object) (*Membership, error) {
	if object.Type != ObjectTypeMember {
		return nil, errors.ErrorData(logutils.StatusInvalid, TypeMembership, &logutils.FieldArgs{"type": object.Type})
	}
	roleID, ok := object.PropertyString(PropertyRoleID)
	if !ok {
		return nil, errors.ErrorData(logutils.StatusMissing, TypeMembership, &logutils.FieldArgs{"property": PropertyRoleID})
	}
	status, ok := object.PropertyString(PropertyStatus)
	if !ok {
		status = object.Status
	}
	return &Membership{ObjectID: object.ID, OrganizationID: object.OrganizationID,
		PrincipalID: object.Name, RoleID: roleID, Status: status}, nil
}

// RoleHierarchy is the versioned ordered role list loaded once at startup.
// Rank 0 is the most senior role. The structure is immutable after load -
// every seniority comparison in the service goes through it.
type RoleHierarchy struct {
	version string
	order   []string
	ranks   map[string]int
	global  map[string]bool
}

type roleHierarchyFile struct {
	Version string `yaml:"version"`
	Roles   []struct {
		Name   string `yaml:"name"`
		Global bool   `yaml:"global"`
	} `yaml:"roles"`
}

// LoadRoleHierarchy reads the role hierarchy definition from a yaml file
func LoadRoleHierarchy(path string) (*RoleHierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionRead, TypeRoleHierarchy, &logutils.FieldArgs{"path": path}, err)
	}

	var file roleHierarchyFile
	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionParse, TypeRoleHierarchy, &logutils.FieldArgs{"path": path}, err)
	}
	if len(file.Roles) == 0 {
		return nil, errors.ErrorData(logutils.StatusMissing, TypeRoleHierarchy, &logutils.FieldArgs{"path": path})
	}

	order := make([]string, len(file.Roles))
	ranks := make(map[string]int, len(file.Roles))
	global := make(map[string]bool)
	for i, role := range file.Roles {
		if _, exists := ranks[role.Name]; exists {
			return nil, errors.ErrorData(logutils.StatusInvalid, TypeRoleHierarchy, &logutils.FieldArgs{"duplicate": role.Name})
		}
		order[i] = role.Name
		ranks[role.Name] = i
		if role.Global {
			global[role.Name] = true
		}
	}

	return &RoleHierarchy{version: file.Version, order: order, ranks: ranks, global: global}, nil
}

// NewRoleHierarchy builds a hierarchy directly from an ordered role list.
// Used by tests and seeding.
func NewRoleHierarchy(version string, roles []string, globalRoles []string) *RoleHierarchy {
	ranks := make(map[string]int, len(roles))
	for i, name := range roles {
		ranks[name] = i
	}
	global := make(map[string]bool, len(globalRoles))
	for _, name := range globalRoles {
		global[name] = true
	}
	return &RoleHierarchy{version: version, order: roles, ranks: ranks, global: global}
}

// Version gives the hierarchy definition version
func (h *RoleHierarchy) Version() string {
	return h.version
}

// Roles gives the ordered role names, most senior first
func (h *RoleHierarchy) Roles() []string {
	roles := make([]string, len(h.order))
	copy(roles, h.order)
	return roles
}

// Rank gives the rank of a role, lower is more senior
func (h *RoleHierarchy) Rank(name string) (int, bool) {
	rank, ok := h.ranks[name]
	return rank, ok
}

// Outranks says whether role a is strictly more senior than role b. Unknown
// roles never outrank anything.
func (h *RoleHierarchy) Outranks(a string, b string) bool {
	rankA, okA := h.ranks[a]
	rankB, okB := h.ranks[b]
	if !okA {
		return false
	}
	if !okB {
		return true
	}
	return rankA < rankB
}

// IsGlobal says whether the role is a global role
func (h *RoleHierarchy) IsGlobal(name string) bool {
	return h.global[name]
}
