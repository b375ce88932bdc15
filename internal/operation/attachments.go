package operation

import (
	"net/http"
	"net/url"
)

func attachmentDefinitions() []*Definition {
	return []*Definition{
		{
			Group:   "attachments",
			Name:    "list",
			Short:   "List attachments on a page",
			Example: `{"page_id": "123456", "media_type": "image/png"}`,
			Method:  http.MethodGet,
			Path:    "/pages/{page_id}/attachments",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "media_type", Type: String},
				{Name: "filename", Type: String},
				limitParam(),
				cursorParam(),
			},
			Query: func(in Input) url.Values {
				return camelQuery(in, "media_type", "filename", "limit", "cursor")
			},
		},
		{
			Group:   "attachments",
			Name:    "get",
			Short:   "Get attachment metadata",
			Example: `{"attachment_id": "att123456"}`,
			Method:  http.MethodGet,
			Path:    "/attachments/{attachment_id}",
			Params: []Param{
				{Name: "attachment_id", Type: String, Required: true},
			},
		},
		{
			Group:   "attachments",
			Name:    "delete",
			Short:   "Delete an attachment (trash it, or purge it when already trashed)",
			Example: `{"attachment_id": "att123456", "purge": false}`,
			Method:  http.MethodDelete,
			Path:    "/attachments/{attachment_id}",
			Params: []Param{
				{Name: "attachment_id", Type: String, Required: true},
				{Name: "purge", Type: Boolean, Default: false},
			},
			Query:  purgeQuery,
			Result: purgeResult("attachment_id"),
		},
	}
}
