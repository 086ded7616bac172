package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// StatusResponse is the response for GET /status.
type StatusResponse struct {
	Body struct {
		Message string `doc:"Service status" example:"OK" json:"message"`
	}
}

// RegisterStatusRoutes sets up the service status route.
func RegisterStatusRoutes(routerAPI huma.API, path string) {
	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getStatus",
			Method:      http.MethodGet,
			Path:        path,
			Summary:     "Report that the service is up",
			Tags:        []string{"Status"},
		},
		func(_ context.Context, _ *struct{}) (*StatusResponse, error) {
			resp := &StatusResponse{}
			resp.Body.Message = "OK"
			return resp, nil
		},
	)
}
