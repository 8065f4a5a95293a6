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

	"platform-building-block/core/model"

	"github.com/rokwire/core-auth-library-go/v3/authservice"
	"github.com/rokwire/core-auth-library-go/v3/tokenauth"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	typeCheckServicesAuthRequestToken logutils.MessageActionType = "checking services auth"
	typeCheckAdminAuthRequestToken    logutils.MessageActionType = "checking admin auth"
	typeCheckSystemAuthRequestToken   logutils.MessageActionType = "checking system auth"
)

// Authorization is an interface for auth types
type Authorization interface {
	check(req *http.Request) (int, *tokenauth.Claims, error)
}

// Auth handler
type Auth struct {
	services *ServicesAuth
	admin    *AdminAuth
	system   *SystemAuth

	logger *logs.Logger
}

// Start starts the auth module
func (auth *Auth) Start() error {
	auth.logger.Info("Auth -> start")

	auth.services.start()
	auth.admin.start()
	auth.system.start()

	return nil
}

// NewAuth creates new auth handler
func NewAuth(serviceRegManager *authservice.ServiceRegManager, logger *logs.Logger) (*Auth, error) {
	tokenAuth, err := tokenauth.NewTokenAuth(true, serviceRegManager, nil, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionStart, "token auth", nil, err)
	}

	services := ServicesAuth{tokenAuth: tokenAuth, logger: logger}
	admin := AdminAuth{tokenAuth: tokenAuth, logger: logger}
	system := SystemAuth{tokenAuth: tokenAuth, logger: logger}

	auth := Auth{services: &services, admin: &admin, system: &system, logger: logger}
	return &auth, nil
}

// principalFromClaims builds the core principal from the verified token
// claims. System scoped tokens carry the global role directly.
func principalFromClaims(claims *tokenauth.Claims) model.Principal {
	principal := model.Principal{ID: claims.Subject}
	if claims.System {
		role := model.RoleSystemAdmin
		principal.GlobalRole = &role
	}
	return principal
}

// ServicesAuth entity
type ServicesAuth struct {
	tokenAuth *tokenauth.TokenAuth
	logger    *logs.Logger
}

func (auth *ServicesAuth) start() {
	auth.logger.Info("ServicesAuth -> start")
}

func (auth *ServicesAuth) check(req *http.Request) (int, *tokenauth.Claims, error) {
	claims, err := auth.tokenAuth.CheckRequestToken(req)
	if err != nil {
		return http.StatusUnauthorized, nil, errors.WrapErrorAction(typeCheckServicesAuthRequestToken, logutils.TypeToken, nil, err)
	}
	if claims.Anonymous {
		return http.StatusForbidden, nil, errors.ErrorData(logutils.StatusInvalid, logutils.TypeToken, &logutils.FieldArgs{"anonymous": true})
	}

	return http.StatusOK, claims, nil
}

// AdminAuth entity
type AdminAuth struct {
	tokenAuth *tokenauth.TokenAuth
	logger    *logs.Logger
}

func (auth *AdminAuth) start() {
	auth.logger.Info("AdminAuth -> start")
}

func (auth *AdminAuth) check(req *http.Request) (int, *tokenauth.Claims, error) {
	claims, err := auth.tokenAuth.CheckRequestToken(req)
	if err != nil {
		return http.StatusUnauthorized, nil, errors.WrapErrorAction(typeCheckAdminAuthRequestToken, logutils.TypeToken, nil, err)
	}
	if claims.Anonymous {
		return http.StatusForbidden, nil, errors.ErrorData(logutils.StatusInvalid, logutils.TypeToken, &logutils.FieldArgs{"anonymous": true})
	}

	return http.StatusOK, claims, nil
}

// SystemAuth entity
type SystemAuth struct {
	tokenAuth *tokenauth.TokenAuth
	logger    *logs.Logger
}

func (auth *SystemAuth) start() {
	auth.logger.Info("SystemAuth -> start")
}

func (auth *SystemAuth) check(req *http.Request) (int, *tokenauth.Claims, error) {
	claims, err := auth.tokenAuth.CheckRequestToken(req)
	if err != nil {
		return http.StatusUnauthorized, nil, errors.WrapErrorAction(typeCheckSystemAuthRequestToken, logutils.TypeToken, nil, err)
	}
	if !claims.System {
		return http.StatusForbidden, nil, errors.ErrorData(logutils.StatusInvalid, logutils.TypeToken, &logutils.FieldArgs{"system": false})
	}

	return http.StatusOK, claims, nil
}
