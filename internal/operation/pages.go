package operation

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/btw-claude/confluence-skills/internal/confluence"
	"github.com/btw-claude/confluence-skills/internal/httpclient"
)

func pageDefinitions() []*Definition {
	return []*Definition{
		{
			Group:   "pages",
			Name:    "list",
			Short:   "List pages, optionally filtered by space, title or status",
			Example: `{"space_id": "123456", "limit": 25}`,
			Method:  http.MethodGet,
			Path:    "/pages",
			Params: []Param{
				{Name: "space_id", Type: String},
				{Name: "title", Type: String},
				{Name: "status", Type: String},
				limitParam(),
				cursorParam(),
			},
			Query: func(in Input) url.Values {
				return kebabQuery(in, "space_id", "title", "status", "limit", "cursor")
			},
		},
		{
			Group:   "pages",
			Name:    "get",
			Short:   "Get a page by ID or URL",
			Example: `{"page_id": "123456", "include_body": true, "body_format": "storage"}`,
			Method:  http.MethodGet,
			Path:    "/pages/{page_id}",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "include_body", Type: Boolean, Default: true},
				{Name: "body_format", Type: String, Default: "storage", Help: "storage, atlas_doc_format or view"},
			},
			Query: func(in Input) url.Values {
				if !in.Bool("include_body") {
					return nil
				}
				return kebabQuery(in, "body_format")
			},
		},
		{
			Group:   "pages",
			Name:    "create",
			Short:   "Create a page",
			Example: `{"space_id": "123456", "title": "New Page", "body": "<p>Page content in storage format.</p>"}`,
			Method:  http.MethodPost,
			Path:    "/pages",
			Params: []Param{
				{Name: "space_id", Type: String, Required: true},
				{Name: "title", Type: String, Required: true},
				{Name: "body", Type: String, Required: true, Help: "storage format"},
				{Name: "parent_id", Type: String, PageID: true},
				{Name: "status", Type: String, Default: "current"},
			},
			Body: func(in Input) any {
				body := camelFields(in, "space_id", "title", "status", "parent_id")
				body["body"] = storageBody(in.String("body"))
				return body
			},
		},
		{
			Group:   "pages",
			Name:    "update",
			Short:   "Replace a page's title and body",
			Example: `{"page_id": "123456", "title": "Updated", "body": "<p>Updated content.</p>", "version_number": 1}`,
			Method:  http.MethodPut,
			Path:    "/pages/{page_id}",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "title", Type: String, Required: true},
				{Name: "body", Type: String, Required: true, Help: "storage format"},
				{Name: "version_number", Type: Integer, Required: true, Help: "current version of the page"},
				{Name: "version_message", Type: String, Default: ""},
				{Name: "status", Type: String, Default: "current"},
			},
			Body: func(in Input) any {
				body := camelFields(in, "title", "status")
				body["id"] = in.String("page_id")
				body["body"] = storageBody(in.String("body"))
				body["version"] = nextVersion(in)
				return body
			},
			ConflictHint: versionConflictHint("page", "pages get"),
		},
		{
			Group:   "pages",
			Name:    "delete",
			Short:   "Delete a page (trash it, or purge it when already trashed)",
			Example: `{"page_id": "123456", "purge": false}`,
			Method:  http.MethodDelete,
			Path:    "/pages/{page_id}",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "purge", Type: Boolean, Default: false},
			},
			Query:  purgeQuery,
			Result: purgeResult("page_id"),
		},
	}
}

// nextVersion is the version object for an update: one past the version
// the caller last saw.
func nextVersion(in Input) confluence.Version {
	return confluence.Version{
		Number:  in.Int("version_number") + 1,
		Message: in.String("version_message"),
	}
}

func versionConflictHint(kind, getCommand string) func(Input) string {
	return func(in Input) string {
		return fmt.Sprintf("version conflict: the %s changed since version %d; run '%s' for the current version_number and retry",
			kind, in.Int("version_number"), getCommand)
	}
}

// purgeResult is deleteResult for deletes that can purge trashed content.
func purgeResult(idField string) func(Input, *httpclient.Response) any {
	return func(in Input, resp *httpclient.Response) any {
		out := deleteResult(idField)(in, resp).(map[string]any)
		out["purged"] = in.Bool("purge")
		return out
	}
}

func purgeQuery(in Input) url.Values {
	if !in.Bool("purge") {
		return nil
	}
	return url.Values{"purge": {"true"}}
}
