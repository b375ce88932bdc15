package operation

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/btw-claude/confluence-skills/internal/confluence"
	"github.com/btw-claude/confluence-skills/internal/httpclient"
)

const spaceDeletionMessage = "Space deletion initiated. This is an asynchronous operation."

func spaceDefinitions() []*Definition {
	return []*Definition{
		{
			Group:   "spaces",
			Name:    "list",
			Short:   "List spaces",
			Example: `{"limit": 50, "cursor": "eyJpZCI6IjEyMzQ1NiJ9"}`,
			Method:  http.MethodGet,
			Path:    "/spaces",
			Params: []Param{
				limitParam(),
				cursorParam(),
				{Name: "keys", Type: String, Help: "comma separated space keys"},
				{Name: "type", Type: String, Help: "global or personal"},
				{Name: "status", Type: String, Help: "current or archived"},
			},
			Query: func(in Input) url.Values {
				return kebabQuery(in, "limit", "cursor", "keys", "type", "status")
			},
		},
		{
			Group:   "spaces",
			Name:    "get",
			Short:   "Get a space by ID",
			Example: `{"space_id": "123456"}`,
			Method:  http.MethodGet,
			Path:    "/spaces/{space_id}",
			Params: []Param{
				{Name: "space_id", Type: String, Required: true},
				{Name: "description_format", Type: String, Help: "plain or view"},
			},
			Query: func(in Input) url.Values {
				return kebabQuery(in, "description_format")
			},
		},
		{
			Group:   "spaces",
			Name:    "create",
			Short:   "Create a space",
			Example: `{"name": "Development Team", "key": "DEV", "description": "Team docs", "create_private_space": false}`,
			Method:  http.MethodPost,
			Path:    "/spaces",
			Params: []Param{
				{Name: "name", Type: String, Required: true},
				{Name: "key", Type: String},
				{Name: "description", Type: String},
				{Name: "alias", Type: String},
				{Name: "create_private_space", Type: Boolean, Default: false},
			},
			Body: createSpaceBody,
		},
		{
			Group:   "spaces",
			Name:    "delete",
			Short:   "Delete a space and all of its content (asynchronous)",
			Example: `{"space_key": "DEV"}`,
			Method:  http.MethodDelete,
			API:     confluence.APIv1,
			Path:    "/space/{space_key}",
			Params: []Param{
				{Name: "space_key", Type: String, Required: true},
			},
			Result: deleteSpaceResult,
		},
	}
}

// deleteSpaceResult keeps the long-task body of a 202 (id, links.status) so
// the asynchronous deletion can be tracked, and fills in the fields every
// delete reports without overwriting upstream keys.
func deleteSpaceResult(in Input, resp *httpclient.Response) any {
	out := map[string]any{}
	if len(resp.Body) > 0 {
		var upstream map[string]any
		if err := json.Unmarshal(resp.Body, &upstream); err == nil && upstream != nil {
			out = upstream
		}
	}

	synthesized := deleteResult("space_key")(in, resp).(map[string]any)
	synthesized["message"] = spaceDeletionMessage
	for k, v := range synthesized {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func createSpaceBody(in Input) any {
	body := camelFields(in, "name", "key", "alias")
	if in.Has("description") {
		body["description"] = map[string]any{
			"plain": map[string]string{
				"value":          in.String("description"),
				"representation": "plain",
			},
		}
	}
	if in.Bool("create_private_space") {
		body["permissions"] = []map[string]any{
			{
				"principal": map[string]string{"type": "user", "id": "current"},
				"operation": map[string]string{"key": "administer", "targetType": "space"},
			},
		}
	}
	return body
}
