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

package main

import (
	"strings"

	"platform-building-block/core"
	"platform-building-block/core/model"
	"platform-building-block/driven/storage"
	"platform-building-block/driver/web"

	"github.com/rokwire/core-auth-library-go/v3/authservice"
	"github.com/rokwire/core-auth-library-go/v3/envloader"
	"github.com/rokwire/logging-library-go/v2/logs"
)

var (
	// Version : version of this executable
	Version string
	// Build : build date of this executable
	Build string
)

func main() {
	if len(Version) == 0 {
		Version = "dev"
	}

	serviceID := "platform"

	loggerOpts := logs.LoggerOpts{SuppressRequests: logs.NewStandardHealthCheckHTTPRequestProperties(serviceID + "/version")}
	logger := logs.NewLogger(serviceID, &loggerOpts)
	envLoader := envloader.NewEnvLoader(Version, logger)

	level := envLoader.GetAndLogEnvVar("PLATFORM_LOG_LEVEL", false, false)
	logLevel := logs.LogLevelFromString(level)
	if logLevel != nil {
		logger.SetLevel(*logLevel)
	}

	port := envLoader.GetAndLogEnvVar("PLATFORM_PORT", false, false)
	//Default port of 80
	if port == "" {
		port = "80"
	}

	host := envLoader.GetAndLogEnvVar("PLATFORM_HOST", true, false)

	// mongoDB adapter
	mongoDBAuth := envLoader.GetAndLogEnvVar("PLATFORM_MONGO_AUTH", true, true)
	mongoDBName := envLoader.GetAndLogEnvVar("PLATFORM_MONGO_DATABASE", true, false)
	mongoTimeout := envLoader.GetAndLogEnvVar("PLATFORM_MONGO_TIMEOUT", false, false)
	storageAdapter := storage.NewStorageAdapter(mongoDBAuth, mongoDBName, mongoTimeout, logger)
	err := storageAdapter.Start()
	if err != nil {
		logger.Fatalf("Cannot start the mongoDB adapter: %v", err)
	}

	// role hierarchy
	rolesPath := envLoader.GetAndLogEnvVar("PLATFORM_ROLES_PATH", false, false)
	if rolesPath == "" {
		rolesPath = "roles.yml"
	}
	hierarchy, err := model.LoadRoleHierarchy(rolesPath)
	if err != nil {
		logger.Fatalf("Cannot load the role hierarchy: %v", err)
	}

	//core
	coreAPIs, err := core.NewCoreAPIs(Version, Build, storageAdapter, hierarchy, logger)
	if err != nil {
		logger.Fatalf("Error initializing core APIs: %v", err)
	}
	coreAPIs.Start()

	//seed the system scope on startup, idempotent across restarts
	systemRole := model.RoleSystemAdmin
	err = coreAPIs.System.SysSeed(model.Principal{ID: model.SystemOrgID, GlobalRole: &systemRole})
	if err != nil {
		logger.Fatalf("Error seeding system data: %v", err)
	}

	// service registration
	coreBBHost := envLoader.GetAndLogEnvVar("PLATFORM_CORE_BB_HOST", true, false)
	authService := authservice.AuthService{
		ServiceID:   serviceID,
		ServiceHost: host,
		FirstParty:  true,
		AuthBaseURL: coreBBHost,
	}
	serviceRegLoader, err := authservice.NewRemoteServiceRegLoader(&authService, nil)
	if err != nil {
		logger.Fatalf("Error initializing service registration loader: %v", err)
	}
	serviceRegManager, err := authservice.NewServiceRegManager(&authService, serviceRegLoader, !strings.HasPrefix(host, "http://localhost"))
	if err != nil {
		logger.Fatalf("Error initializing service registration manager: %v", err)
	}

	//web adapter
	webAdapter := web.NewWebAdapter(port, coreAPIs, host, serviceRegManager, logger)
	webAdapter.Start()
}
