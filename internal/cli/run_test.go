package cli_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/packsync/packsync/internal/cli"
)

// run invokes the CLI as a user would, with the global config lookup
// pointed at a throwaway directory.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var out, errOut bytes.Buffer

	argv := append([]string{"packsync"}, args...)
	env := []string{"XDG_CONFIG_HOME=" + t.TempDir()}

	code := cli.Run(&out, &errOut, argv, env)

	return code, out.String(), errOut.String()
}

func newListServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/packing-lists", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Beach trip","itemCount":10,"packedCount":4},
			{"id":2,"name":"Ski weekend","itemCount":6,"packedCount":6}
		]`))
	})
	mux.HandleFunc("/packing-lists/2/summary", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":2,"name":"Ski weekend","itemCount":6,"packedCount":6}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func Test_Run_Without_Args_Prints_Usage(t *testing.T) {
	t.Parallel()

	code, out, _ := run(t)

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	if !strings.Contains(out, "Usage: packsync") {
		t.Fatalf("usage missing from output:\n%s", out)
	}
}

func Test_Run_Rejects_Unknown_Command(t *testing.T) {
	t.Parallel()

	code, _, errOut := run(t, "frobnicate")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	if !strings.Contains(errOut, "unknown command") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func Test_Lists_Marks_The_Active_List(t *testing.T) {
	t.Parallel()

	server := newListServer(t)
	stateDir := t.TempDir()

	code, _, errOut := run(t,
		"--base-url", server.URL, "--state-dir", stateDir, "use", "2")
	if code != 0 {
		t.Fatalf("use failed: %s", errOut)
	}

	code, out, errOut := run(t,
		"--base-url", server.URL, "--state-dir", stateDir, "lists")
	if code != 0 {
		t.Fatalf("lists failed: %s", errOut)
	}

	var active string

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "*") {
			active = line
		}
	}

	if !strings.Contains(active, "Ski weekend") {
		t.Fatalf("active marker missing:\n%s", out)
	}

	if !strings.Contains(out, "Beach trip") {
		t.Fatalf("lists output incomplete:\n%s", out)
	}
}

func Test_Offline_Add_Queues_And_Status_Reports_It(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()

	code, _, errOut := run(t,
		"--offline", "--base-url", "http://127.0.0.1:1", "--state-dir", stateDir, "use", "7")
	if code != 0 {
		t.Fatalf("offline use failed: %s", errOut)
	}

	code, _, errOut = run(t,
		"--offline", "--base-url", "http://127.0.0.1:1", "--state-dir", stateDir, "add", "Towel")
	if code != 0 {
		t.Fatalf("offline add failed: %s", errOut)
	}

	code, out, errOut := run(t,
		"--offline", "--base-url", "http://127.0.0.1:1", "--state-dir", stateDir, "status")
	if code != 0 {
		t.Fatalf("status failed: %s", errOut)
	}

	if !strings.Contains(out, "connection: offline") {
		t.Fatalf("status output:\n%s", out)
	}

	if !strings.Contains(out, "queued offline changes: 1") {
		t.Fatalf("queued change not reported:\n%s", out)
	}

	if !strings.Contains(out, "active list: 7") {
		t.Fatalf("active list not reported:\n%s", out)
	}
}

func Test_Recent_Orders_Most_Recent_First(t *testing.T) {
	t.Parallel()

	server := newListServer(t)
	stateDir := t.TempDir()

	mux, ok := server.Config.Handler.(*http.ServeMux)
	if !ok {
		t.Fatal("server handler is not a mux")
	}

	mux.HandleFunc("/packing-lists/1/summary", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"Beach trip","itemCount":10,"packedCount":4}`))
	})

	for _, id := range []string{"1", "2"} {
		code, _, errOut := run(t,
			"--base-url", server.URL, "--state-dir", stateDir, "use", id)
		if code != 0 {
			t.Fatalf("use %s failed: %s", id, errOut)
		}
	}

	code, out, errOut := run(t,
		"--base-url", server.URL, "--state-dir", stateDir, "recent")
	if code != 0 {
		t.Fatalf("recent failed: %s", errOut)
	}

	ski := strings.Index(out, "Ski weekend")
	beach := strings.Index(out, "Beach trip")

	if ski == -1 || beach == -1 || ski > beach {
		t.Fatalf("recent order wrong:\n%s", out)
	}
}
