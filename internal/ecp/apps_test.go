package ecp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const mockCatalogResponse = `<?xml version="1.0" encoding="UTF-8" ?>
<apps>
	<app id="12" subtype="ndka" type="appl" version="5.3.85">Netflix</app>
	<app id="2285" subtype="rsga" type="appl" version="6.39.2">Hulu</app>
	<app id="13535" subtype="rsga" type="appl" version="7.2.1">Plex - Free Movies &amp; TV</app>
</apps>`

func TestApps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("request method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/query/apps" {
			t.Errorf("request path = %s, want /query/apps", r.URL.Path)
		}
		w.Write([]byte(mockCatalogResponse))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	apps, err := client.Apps()
	if err != nil {
		t.Fatalf("Apps() error = %v, want nil", err)
	}

	want := []App{
		{ID: "12", Name: "Netflix"},
		{ID: "2285", Name: "Hulu"},
		{ID: "13535", Name: "Plex - Free Movies & TV"},
	}
	if len(apps) != len(want) {
		t.Fatalf("Apps() returned %d apps, want %d", len(apps), len(want))
	}
	for i, app := range want {
		if apps[i] != app {
			t.Errorf("apps[%d] = %+v, want %+v", i, apps[i], app)
		}
	}
}

func TestApps_TransportFailure(t *testing.T) {
	client := NewClient("192.0.2.1:8060")
	client.SetTimeout(100 * time.Millisecond)

	apps, err := client.Apps()
	if err == nil {
		t.Fatal("Apps() error = nil, want network error")
	}
	if !IsNetworkError(err) {
		t.Errorf("Apps() error should be network error, got %T: %v", err, err)
	}
	if apps != nil {
		t.Errorf("Apps() = %v, want nil on failure", apps)
	}
}

func TestApps_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.Apps()
	if !IsHTTPError(err) {
		t.Errorf("Apps() error should be HTTP error, got %v", err)
	}
}

func TestParseApps(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []App
	}{
		{
			name: "entity decoding with extra attributes",
			body: `<app id="12345" subtype="scrn">Netflix &amp; Chill</app>`,
			want: []App{{ID: "12345", Name: "Netflix & Chill"}},
		},
		{
			name: "zero records yields empty sequence",
			body: `<?xml version="1.0"?><apps></apps>`,
			want: []App{},
		},
		{
			name: "unrelated markup is ignored",
			body: `<device><name>Living Room</name></device>`,
			want: []App{},
		},
		{
			name: "record without id contributes nothing",
			body: `<app version="1.0">Nameless</app><app id="99">Kept</app>`,
			want: []App{{ID: "99", Name: "Kept"}},
		},
		{
			name: "duplicate id keeps first record",
			body: `<app id="7">First</app><app id="7">Second</app>`,
			want: []App{{ID: "7", Name: "First"}},
		},
		{
			name: "surrounding whitespace trimmed from name",
			body: `<app id="42"> YouTube </app>`,
			want: []App{{ID: "42", Name: "YouTube"}},
		},
		{
			name: "numeric entity decoded",
			body: `<app id="8">caf&#233;</app>`,
			want: []App{{ID: "8", Name: "café"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseApps(tt.body)
			if len(got) != len(tt.want) {
				t.Fatalf("parseApps() returned %d apps, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("parseApps()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
