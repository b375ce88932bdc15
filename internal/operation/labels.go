package operation

import (
	"net/http"
	"net/url"
)

func labelDefinitions() []*Definition {
	return []*Definition{
		{
			Group:   "labels",
			Name:    "list",
			Short:   "List labels on a page",
			Example: `{"page_id": "123456", "prefix": "global"}`,
			Method:  http.MethodGet,
			Path:    "/pages/{page_id}/labels",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "prefix", Type: String, Help: "global, my or team"},
				limitParam(),
				cursorParam(),
			},
			Query: func(in Input) url.Values {
				return kebabQuery(in, "prefix", "limit", "cursor")
			},
		},
		{
			Group:   "labels",
			Name:    "add",
			Short:   "Add a label to a page",
			Example: `{"page_id": "123456", "label": "documentation"}`,
			Method:  http.MethodPost,
			Path:    "/pages/{page_id}/labels",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "label", Type: String, Required: true},
			},
			Body: func(in Input) any {
				return map[string]string{"name": in.String("label")}
			},
		},
		{
			Group:   "labels",
			Name:    "remove",
			Short:   "Remove a label from a page",
			Example: `{"page_id": "123456", "label_id": "456789"}`,
			Method:  http.MethodDelete,
			Path:    "/pages/{page_id}/labels/{label_id}",
			Params: []Param{
				{Name: "page_id", Type: String, Required: true, PageID: true},
				{Name: "label_id", Type: String, Required: true},
			},
			Result: deleteResult("page_id", "label_id"),
		},
	}
}
