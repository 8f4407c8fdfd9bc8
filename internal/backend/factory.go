// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"mochi/shell/internal/apiclient"
	"mochi/shell/internal/endpoints"
)

// New creates a backend API implementation sending through client.
func New(client *apiclient.Client, eps endpoints.Endpoints) API {
	return newHTTP(client, eps)
}
