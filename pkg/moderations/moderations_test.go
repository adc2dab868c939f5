package moderations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fragen-dev/fragen/pkg/auth"
	"github.com/fragen-dev/fragen/pkg/client"
)

func TestCreate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/moderations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		io.WriteString(w, `{
			"id": "modr-1",
			"model": "text-moderation-latest",
			"results": [{
				"flagged": true,
				"categories": {"violence": true, "hate": false},
				"category_scores": {"violence": 0.98, "hate": 0.01}
			}]
		}`)
	}))
	defer srv.Close()

	svc := New(client.New(auth.APIKey("sk-test"), client.WithBaseURL(srv.URL)))
	out, err := svc.Create(context.Background(), &Request{Input: "some text"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	result := out.Results[0]
	if !result.Flagged {
		t.Error("flagged = false")
	}
	if !result.Categories.Violence || result.Categories.Hate {
		t.Errorf("categories = %+v", result.Categories)
	}
	if result.CategoryScores.Violence != 0.98 {
		t.Errorf("violence score = %v", result.CategoryScores.Violence)
	}
	if gotBody["input"] != "some text" {
		t.Errorf("request input = %v", gotBody["input"])
	}
}
