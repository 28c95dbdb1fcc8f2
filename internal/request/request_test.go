package request

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/meshdash/internal/nav"
)

type recordingSender struct {
	paths []string
}

func (r *recordingSender) Send(path string) { r.paths = append(r.paths, path) }

func TestViewPathPerTab(t *testing.T) {
	cases := map[nav.Tab]string{
		nav.TabController: "/display/CONTROLLER",
		nav.TabAllNodes:   "/display/ALL_NODES",
		nav.TabOneNode:    "/display/ONE_NODE/17",
		nav.TabLogs:       "/display/LOGS",
		nav.TabSlow:       "/display/BAD",
		nav.TabFailed:     "/display/FAILED",
	}
	for tab, want := range cases {
		if got := ViewPath(tab, "17"); got != want {
			t.Fatalf("%s: expected %s, got %s", tab, want, got)
		}
	}
}

func TestRequestViewAlwaysPairsDriverRefresh(t *testing.T) {
	for _, tab := range nav.Tabs() {
		rec := &recordingSender{}
		NewDispatcher(rec).RequestView(tab, "3")
		want := []string{ViewPath(tab, "3"), StatusPath}
		if !reflect.DeepEqual(rec.paths, want) {
			t.Fatalf("%s: expected %v, got %v", tab, want, rec.paths)
		}
	}
}

func TestActionPathExpansion(t *testing.T) {
	cases := []struct {
		template string
		args     []string
		want     string
	}{
		{"/node/<CURRENT>/ping", nil, "/node/5/ping"},
		{"/controller/refresh", nil, "/controller/refresh"},
		{"/node/<CURRENT>/multilevel_switch/", []string{"40"}, "/node/5/multilevel_switch/40"},
		{"/node/<CURRENT>/change_parameter/", []string{"3", "1", "255"}, "/node/5/change_parameter/3/1/255"},
		{"/node/<CURRENT>/set_name", []string{"hall lamp/2"}, "/node/5/set_name/hall%20lamp%2F2"},
		{"/node/<CURRENT>/x/<CURRENT>", nil, "/node/5/x/<CURRENT>"},
	}
	for _, tc := range cases {
		if got := ActionPath(tc.template, "5", tc.args); got != tc.want {
			t.Fatalf("%s %v: expected %s, got %s", tc.template, tc.args, tc.want, got)
		}
	}
}

func TestRequestActionSendsExpandedPath(t *testing.T) {
	rec := &recordingSender{}
	sent := NewDispatcher(rec).RequestAction("/node/<CURRENT>/binary_switch/99", "8", nil)
	if sent != "/node/8/binary_switch/99" || !reflect.DeepEqual(rec.paths, []string{sent}) {
		t.Fatalf("unexpected send %q %v", sent, rec.paths)
	}
}

func TestHTTPSenderPreservesOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.URL.EscapedPath())
		n := len(got)
		mu.Unlock()
		w.Write([]byte("ignored"))
		if n == 3 {
			close(done)
		}
	}))
	defer ts.Close()

	s := NewHTTPSender(ts.URL+"/", nil)
	defer func() {
		s.Stop()
		s.Wait()
	}()
	s.Send("/display/LOGS")
	s.Send(StatusPath)
	s.Send("/node/2/ping")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for requests")
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"/display/LOGS", StatusPath, "/node/2/ping"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestHTTPSenderToleratesServerErrors(t *testing.T) {
	hits := make(chan struct{}, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		hits <- struct{}{}
	}))
	defer ts.Close()

	s := NewHTTPSender(ts.URL, nil)
	s.Send("/controller/refresh")
	s.Send("/controller/refresh")
	for i := 0; i < 2; i++ {
		select {
		case <-hits:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for request %d", i)
		}
	}
	s.Stop()
	s.Wait()
	s.Send("/after/stop")
}

func TestHTTPSenderHungRequestDoesNotStallQueue(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	arrived := make(chan string, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- r.URL.EscapedPath()
		if r.URL.Path == "/display/LOGS" {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := NewHTTPSender(ts.URL, &http.Client{Timeout: 100 * time.Millisecond})
	defer func() {
		s.Stop()
		s.Wait()
	}()
	start := time.Now()
	s.Send("/display/LOGS")
	s.Send("/node/4/ping")

	for _, want := range []string{"/display/LOGS", "/node/4/ping"} {
		select {
		case got := <-arrived:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected the hung request to give up quickly, took %s", elapsed)
	}
}

func TestDefaultClientTimeoutIsShort(t *testing.T) {
	s := NewHTTPSender("http://mesh.local", nil)
	defer func() {
		s.Stop()
		s.Wait()
	}()
	if s.client.Timeout != requestTimeout || requestTimeout > 2*time.Second {
		t.Fatalf("expected a short default timeout, got %s", s.client.Timeout)
	}
}
