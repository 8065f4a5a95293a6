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

package utils

import (
	"net/http"

	"github.com/rokwire/logging-library-go/v2/logs"
)

// Contains says whether the list contains the given value
func Contains[T comparable](list []T, value T) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// LogRequest logs the request, hiding sensitive header fields
func LogRequest(req *http.Request, logger *logs.Logger) {
	if req == nil {
		return
	}

	header := make(map[string][]string)
	for key, value := range req.Header {
		var logValue []string
		if key == "Authorization" || key == "Cookie" || key == "Csrf" {
			logValue = append(logValue, "---")
		} else {
			logValue = value
		}
		header[key] = logValue
	}
	logger.Infof("%s %s %v", req.Method, req.URL.Path, header)
}
