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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testRolesYAML = `version: "1.0"
roles:
  - name: system_admin
    global: true
  - name: owner
  - name: admin
  - name: manager
  - name: member
`

func writeRolesFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "roles.yml")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestLoadRoleHierarchy(t *testing.T) {
	hierarchy, err := LoadRoleHierarchy(writeRolesFile(t, testRolesYAML))
	assert.NoError(t, err)

	assert.Equal(t, "1.0", hierarchy.Version())
	assert.Equal(t, []string{"system_admin", "owner", "admin", "manager", "member"}, hierarchy.Roles())

	rank, ok := hierarchy.Rank("admin")
	assert.True(t, ok)
	assert.Equal(t, 2, rank)

	_, ok = hierarchy.Rank("intern")
	assert.False(t, ok)

	assert.True(t, hierarchy.IsGlobal("system_admin"))
	assert.False(t, hierarchy.IsGlobal("owner"))
}

func TestRoleHierarchyOutranks(t *testing.T) {
	hierarchy, err := LoadRoleHierarchy(writeRolesFile(t, testRolesYAML))
	assert.NoError(t, err)

	assert.True(t, hierarchy.Outranks("owner", "admin"))
	assert.False(t, hierarchy.Outranks("admin", "owner"))
	//seniority is strict, a role never outranks itself
	assert.False(t, hierarchy.Outranks("admin", "admin"))
	//unknown roles never outrank anything
	assert.False(t, hierarchy.Outranks("intern", "member"))
	assert.True(t, hierarchy.Outranks("member", "intern"))
}

func TestLoadRoleHierarchyDuplicate(t *testing.T) {
	content := "version: \"1.0\"\nroles:\n  - name: admin\n  - name: admin\n"
	_, err := LoadRoleHierarchy(writeRolesFile(t, content))
	assert.Error(t, err)
}

func TestLoadRoleHierarchyEmpty(t *testing.T) {
	_, err := LoadRoleHierarchy(writeRolesFile(t, "version: \"1.0\"\nroles: []\n"))
	assert.Error(t, err)
}

func TestMembershipFromObject(t *testing.T) {
	object := Object{ID: "m1", OrganizationID: "org1", Type: ObjectTypeMember, Name: "principal1",
		Status:           ObjectStatusActive,
		CustomProperties: map[string]interface{}{PropertyRoleID: "role1", PropertyStatus: MembershipStatusPending}}

	membership, err := MembershipFromObject(object)
	assert.NoError(t, err)
	assert.Equal(t, "principal1", membership.PrincipalID)
	assert.Equal(t, "role1", membership.RoleID)
	assert.Equal(t, MembershipStatusPending, membership.Status)
}

func TestMembershipFromObjectWrongType(t *testing.T) {
	_, err := MembershipFromObject(Object{Type: ObjectTypeContact})
	assert.Error(t, err)
}

func TestMembershipFromObjectMissingRole(t *testing.T) {
	_, err := MembershipFromObject(Object{Type: ObjectTypeMember, Name: "principal1"})
	assert.Error(t, err)
}
