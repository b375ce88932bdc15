package operation

import (
	"net/http"
	"net/url"
)

func commentDefinitions() []*Definition {
	return []*Definition{
		{
			Group:   "comments",
			Name:    "list",
			Short:   "List footer comments on a page",
			Example: `{"page_id": "123456", "body_format": "storage"}`,
			Method:  http.MethodGet,
			Path:    "/pages/{page_id}/footer-comments",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "body_format", Type: String},
				limitParam(),
				cursorParam(),
			},
			Query: func(in Input) url.Values {
				return kebabQuery(in, "body_format", "limit", "cursor")
			},
		},
		{
			Group:   "comments",
			Name:    "get",
			Short:   "Get a footer comment",
			Example: `{"comment_id": "789012"}`,
			Method:  http.MethodGet,
			Path:    "/footer-comments/{comment_id}",
			Params: []Param{
				{Name: "comment_id", Type: String, Required: true},
				{Name: "body_format", Type: String},
			},
			Query: func(in Input) url.Values {
				return kebabQuery(in, "body_format")
			},
		},
		{
			Group:   "comments",
			Name:    "create",
			Short:   "Add a footer comment to a page",
			Example: `{"page_id": "123456", "body": "<p>This is a comment.</p>"}`,
			Method:  http.MethodPost,
			Path:    "/pages/{page_id}/footer-comments",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "body", Type: String, Required: true, Help: "storage format"},
			},
			Body: func(in Input) any {
				return map[string]any{"body": storageBody(in.String("body"))}
			},
		},
		{
			Group:   "comments",
			Name:    "update",
			Short:   "Replace a footer comment's body",
			Example: `{"comment_id": "789012", "body": "<p>Edited.</p>", "version_number": 1}`,
			Method:  http.MethodPut,
			Path:    "/footer-comments/{comment_id}",
			Params: []Param{
				{Name: "comment_id", Type: String, Required: true},
				{Name: "body", Type: String, Required: true, Help: "storage format"},
				{Name: "version_number", Type: Integer, Required: true, Help: "current version of the comment"},
			},
			Body: func(in Input) any {
				return map[string]any{
					"body":    storageBody(in.String("body")),
					"version": nextVersion(in),
				}
			},
			ConflictHint: versionConflictHint("comment", "comments get"),
		},
		{
			Group:   "comments",
			Name:    "delete",
			Short:   "Delete a footer comment",
			Example: `{"comment_id": "789012"}`,
			Method:  http.MethodDelete,
			Path:    "/footer-comments/{comment_id}",
			Params: []Param{
				{Name: "comment_id", Type: String, Required: true},
			},
			Result: deleteResult("comment_id"),
		},
	}
}
