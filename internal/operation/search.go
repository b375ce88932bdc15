package operation

import (
	"net/http"
	"net/url"

	"github.com/btw-claude/confluence-skills/internal/confluence"
)

func searchDefinitions() []*Definition {
	return []*Definition{
		{
			Group:   "search",
			Short:   "Search content with CQL",
			Example: `{"query": "type=page AND space=DEV AND text~\"deploy\"", "limit": 50}`,
			Method:  http.MethodGet,
			API:     confluence.APIv1,
			Path:    "/search",
			Params: []Param{
				{Name: "query", Type: String, Required: true, Help: "CQL expression"},
				limitParam(),
				cursorParam(),
			},
			Query: func(in Input) url.Values {
				q := kebabQuery(in, "limit", "cursor")
				q.Set("cql", in.String("query"))
				return q
			},
		},
	}
}
