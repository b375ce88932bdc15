package parse

import "testing"

func TestConfluencePageID(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain id", input: "12345", want: "12345"},
		{name: "padded id", input: " 12345 ", want: "12345"},
		{name: "space page path", input: "https://example.atlassian.net/wiki/spaces/ENG/pages/67890/Design+Notes", want: "67890"},
		{name: "wiki page path", input: "https://example.atlassian.net/wiki/pages/13579/Page", want: "13579"},
		{name: "render action", input: "https://example.atlassian.net/wiki/renderpagecontent.action?pageId=24680", want: "24680"},
		{name: "fragment page id", input: "https://example.atlassian.net/wiki/spaces/ENG/pages/viewpage.action#pageId=998877", want: "998877"},
		{name: "invalid", input: "https://example.atlassian.net/wiki/display/ENG/Home", wantErr: true},
		{name: "not a url", input: "my-page", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ConfluencePageID(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none with %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPageIDFromURLRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{
		"https://example.atlassian.net/wiki/spaces/ENG/overview",
		"https://example.atlassian.net/wiki/pages/viewpage.action?pageId=abc",
	} {
		if id, err := pageIDFromURL(raw); err == nil {
			t.Fatalf("expected error for %s, got %q", raw, id)
		}
	}
}
