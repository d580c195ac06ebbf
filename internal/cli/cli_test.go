package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/user/seo-scanner/internal/entity"
)

func init() {
	color.NoColor = true
}

func TestFormatStatus(t *testing.T) {
	cases := map[int]string{0: "ERR", 200: "200", 301: "301", 404: "404", 503: "503"}
	for status, want := range cases {
		if got := formatStatus(status); got != want {
			t.Fatalf("formatStatus(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestRedirectsCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"redirects", "--log-level", "error", srv.URL})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "1. [301] "+srv.URL) {
		t.Fatalf("missing first hop in output:\n%s", got)
	}
	if !strings.Contains(got, "2. [200] "+srv.URL+"/final") {
		t.Fatalf("missing final hop in output:\n%s", got)
	}
}

func TestScanCommandRejectsUnknownTool(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"scan", "--log-level", "error", "--tools", "lighthouse", "example.com"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), `invalid tool "lighthouse"`) {
		t.Fatalf("expected invalid tool error, got %v", err)
	}
}

func TestPrintTraceTruncated(t *testing.T) {
	var out bytes.Buffer
	printTrace(&out, entity.RedirectTrace{
		URL:       "https://loop.example",
		Hops:      []entity.RedirectHop{{URL: "https://loop.example", Status: 302}},
		Truncated: true,
	})
	if !strings.Contains(out.String(), "stopped after 1 hops") {
		t.Fatalf("expected truncation notice:\n%s", out.String())
	}
}

func TestPrintWhoisSortsFields(t *testing.T) {
	var out bytes.Buffer
	printWhois(&out, entity.WhoisResult{
		Domain: "example.com",
		Source: "rdap",
		Data: entity.WhoisRecord{
			entity.WhoisRegistrar:  "Example Registrar",
			entity.WhoisNameServer: []string{"ns1.example.com", "ns2.example.com"},
		},
		RawText: "raw text",
	}, false)

	got := out.String()
	if !strings.Contains(got, "example.com (via rdap)") {
		t.Fatalf("missing header:\n%s", got)
	}
	if strings.Index(got, "nameServer") > strings.Index(got, "registrar") {
		t.Fatalf("fields should be sorted:\n%s", got)
	}
	if !strings.Contains(got, "ns1.example.com, ns2.example.com") {
		t.Fatalf("list values should be joined:\n%s", got)
	}
	if strings.Contains(got, "raw text") {
		t.Fatalf("raw text printed without --raw")
	}
}
