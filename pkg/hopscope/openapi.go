// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hopscope

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/telekom/hopscope/internal/traceroute"
	"github.com/telekom/hopscope/pkg"
	"github.com/telekom/hopscope/pkg/api"
)

// openapiDocument describes the routes of the api.
func openapiDocument() (*openapi3.T, error) {
	version := pkg.Version
	if version == "" {
		version = "dev"
	}

	groups, err := openapi3gen.NewSchemaRefForValue([]string{}, nil)
	if err != nil {
		return nil, api.ErrCreateOpenapiSchema{Name: "groups", Err: err}
	}
	window, err := openapi3gen.NewSchemaRefForValue([]traceroute.Result{}, nil)
	if err != nil {
		return nil, api.ErrCreateOpenapiSchema{Name: "window", Err: err}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "hopscope",
			Description: "Traceroute results of the configured destinations",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}

	doc.Paths.Set("/v1/traces", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Summary:     "List the groups holding trace results",
			OperationID: "listGroups",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription("Group names").WithJSONSchemaRef(groups),
				}),
			),
		},
	})

	doc.Paths.Set("/v1/traces/{group}", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Summary:     "Get the latest trace results of a group, oldest first",
			OperationID: "getWindow",
			Parameters: openapi3.Parameters{
				{Value: openapi3.NewPathParameter("group").WithSchema(openapi3.NewStringSchema())},
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription("Result window").WithJSONSchemaRef(window),
				}),
				openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription("Unknown group"),
				}),
			),
		},
	})

	return doc, nil
}
