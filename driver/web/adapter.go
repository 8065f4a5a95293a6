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

package web

import (
	"net/http"

	"platform-building-block/core"
	"platform-building-block/core/model"
	"platform-building-block/utils"

	"github.com/gorilla/mux"
	"github.com/rokwire/core-auth-library-go/v3/authservice"
	"github.com/rokwire/core-auth-library-go/v3/tokenauth"
	"github.com/rokwire/logging-library-go/v2/logs"
)

// Adapter entity
type Adapter struct {
	host string
	port string
	auth *Auth

	servicesApisHandler ServicesApisHandler
	adminApisHandler    AdminApisHandler
	systemApisHandler   SystemApisHandler

	coreAPIs *core.CoreAPIs
	logger   *logs.Logger
}

type handlerFunc = func(*logs.Log, *http.Request, *tokenauth.Claims) logs.HTTPResponse

// Start starts the module
func (we Adapter) Start() {
	err := we.auth.Start()
	if err != nil {
		we.logger.Fatalf("error starting auth - %s", err)
	}

	router := mux.NewRouter().StrictSlash(true)

	subRouter := router.PathPrefix("/platform").Subrouter()
	subRouter.HandleFunc("/version", we.wrapFunc(we.servicesApisHandler.getVersion, nil)).Methods("GET")

	///services ///
	servicesSubRouter := subRouter.PathPrefix("/services").Subrouter()
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects", we.wrapFunc(we.servicesApisHandler.getObjects, we.auth.services)).Methods("GET")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects", we.wrapFunc(we.servicesApisHandler.createObject, we.auth.services)).Methods("POST")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects/{id}", we.wrapFunc(we.servicesApisHandler.getObject, we.auth.services)).Methods("GET")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects/{id}", we.wrapFunc(we.servicesApisHandler.updateObject, we.auth.services)).Methods("PUT")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects/{id}/status", we.wrapFunc(we.servicesApisHandler.setObjectStatus, we.auth.services)).Methods("PUT")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects/{id}/history", we.wrapFunc(we.servicesApisHandler.getObjectHistory, we.auth.services)).Methods("GET")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects/{id}/links/{link-type}", we.wrapFunc(we.servicesApisHandler.getLinks, we.auth.services)).Methods("GET")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/objects/{id}/links/{link-type}", we.wrapFunc(we.servicesApisHandler.replaceLinks, we.auth.services)).Methods("PUT")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/links", we.wrapFunc(we.servicesApisHandler.createLink, we.auth.services)).Methods("POST")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/configs/{key}", we.wrapFunc(we.servicesApisHandler.resolveConfig, we.auth.services)).Methods("GET")
	servicesSubRouter.HandleFunc("/orgs/{org-id}/templates", we.wrapFunc(we.servicesApisHandler.resolveTemplates, we.auth.services)).Methods("GET")

	///admin ///
	adminSubRouter := subRouter.PathPrefix("/admin").Subrouter()
	adminSubRouter.HandleFunc("/orgs/{org-id}/roles", we.wrapFunc(we.adminApisHandler.createRole, we.auth.admin)).Methods("POST")
	adminSubRouter.HandleFunc("/orgs/{org-id}/roles", we.wrapFunc(we.adminApisHandler.getRoles, we.auth.admin)).Methods("GET")
	adminSubRouter.HandleFunc("/orgs/{org-id}/members", we.wrapFunc(we.adminApisHandler.getMembers, we.auth.admin)).Methods("GET")
	adminSubRouter.HandleFunc("/orgs/{org-id}/members/{principal-id}", we.wrapFunc(we.adminApisHandler.setMembership, we.auth.admin)).Methods("PUT")
	adminSubRouter.HandleFunc("/orgs/{org-id}/members/{principal-id}", we.wrapFunc(we.adminApisHandler.revokeMembership, we.auth.admin)).Methods("DELETE")

	///system ///
	systemSubRouter := subRouter.PathPrefix("/system").Subrouter()
	systemSubRouter.HandleFunc("/seed", we.wrapFunc(we.systemApisHandler.seed, we.auth.system)).Methods("POST")
	systemSubRouter.HandleFunc("/organizations", we.wrapFunc(we.systemApisHandler.createOrganization, we.auth.system)).Methods("POST")
	systemSubRouter.HandleFunc("/organizations", we.wrapFunc(we.systemApisHandler.getOrganizations, we.auth.system)).Methods("GET")

	we.logger.Fatalf("error serving - %s", http.ListenAndServe(":"+we.port, router))
}

func (we Adapter) wrapFunc(handler handlerFunc, authorization Authorization) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		utils.LogRequest(req, we.logger)
		logObj := we.logger.NewRequestLog(req)
		logObj.RequestReceived()

		var response logs.HTTPResponse
		if authorization != nil {
			responseStatus, claims, err := authorization.check(req)
			if err != nil {
				response = logObj.HTTPResponseError(http.StatusText(responseStatus), err, responseStatus, true)
				logObj.SendHTTPResponse(w, response)
				logObj.RequestComplete()
				return
			}
			response = handler(logObj, req, claims)
		} else {
			response = handler(logObj, req, nil)
		}

		logObj.SendHTTPResponse(w, response)
		logObj.RequestComplete()
	}
}

// errorStatus maps the typed domain errors to HTTP statuses. Anything not
// typed is a plain internal failure.
func errorStatus(err error) int {
	switch {
	case model.IsNotFound(err), model.IsNoDefault(err):
		return http.StatusNotFound
	case model.IsForbidden(err), model.IsNoMembership(err):
		return http.StatusForbidden
	case model.IsSchemaViolation(err), model.IsSchemaNotRegistered(err):
		return http.StatusBadRequest
	case model.IsConflict(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// NewWebAdapter creates new WebAdapter instance
func NewWebAdapter(port string, coreAPIs *core.CoreAPIs, host string, serviceRegManager *authservice.ServiceRegManager, logger *logs.Logger) Adapter {
	auth, err := NewAuth(serviceRegManager, logger)
	if err != nil {
		logger.Fatalf("error creating auth - %s", err)
	}

	servicesApisHandler := NewServicesApisHandler(coreAPIs)
	adminApisHandler := NewAdminApisHandler(coreAPIs)
	systemApisHandler := NewSystemApisHandler(coreAPIs)
	return Adapter{host: host, port: port, auth: auth, servicesApisHandler: servicesApisHandler,
		adminApisHandler: adminApisHandler, systemApisHandler: systemApisHandler,
		coreAPIs: coreAPIs, logger: logger}
}
