//go:build smoke

package smoke

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/vistos/internal/db"
)

const smokeConfig = `app:
  name: "Vistos"
  environment: "development"
  port: %[1]d
  base_url: "http://localhost:%[1]d"

database:
  driver: "sqlite"
  filename: "%[2]s"

drafts:
  ttl: 2h
  purge_cron: "*/5 * * * *"

payment:
  redirect_url: "http://localhost:%[1]d/health"

features:
  enable_metrics: true
  enable_debug: true
`

// serverProcess is a built server binary running against a temp config.
type serverProcess struct {
	base   string
	dbPath string
	cmd    *exec.Cmd
	done   chan struct{}
	err    error
	output bytes.Buffer
}

func (p *serverProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *serverProcess) logs() string {
	return p.output.String()
}

// startServer builds ./cmd/server, starts it on a free port and waits for
// /health. The process gets an interrupt when the test ends.
func startServer(t *testing.T) *serverProcess {
	t.Helper()
	dir := t.TempDir()

	bin := filepath.Join(dir, "vistos-server")
	build := exec.Command("go", "build", "-o", bin, "./cmd/server")
	build.Dir = repoRoot(t)
	out, err := build.CombinedOutput()
	require.NoError(t, err, "build server:\n%s", out)

	port := freePort(t)
	proc := &serverProcess{
		base:   fmt.Sprintf("http://localhost:%d", port),
		dbPath: filepath.Join(dir, "db", "smoke.db"),
		done:   make(chan struct{}),
	}
	config := fmt.Sprintf(smokeConfig, port, filepath.ToSlash(proc.dbPath))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0o644))

	proc.cmd = exec.Command(bin)
	proc.cmd.Dir = dir
	proc.cmd.Stdout = &proc.output
	proc.cmd.Stderr = &proc.output
	require.NoError(t, proc.cmd.Start(), "start server")
	go func() {
		proc.err = proc.cmd.Wait()
		close(proc.done)
	}()
	t.Cleanup(func() {
		_ = proc.cmd.Process.Signal(os.Interrupt)
		select {
		case <-proc.done:
		case <-time.After(5 * time.Second):
			_ = proc.cmd.Process.Kill()
			<-proc.done
		}
	})

	client := &http.Client{Timeout: 500 * time.Millisecond}
	deadline := time.Now().Add(10 * time.Second)
	for {
		if proc.exited() {
			require.FailNowf(t, "server exited before becoming healthy", "%v\n%s", proc.err, proc.logs())
		}
		if resp, err := client.Get(proc.base + "/health"); err == nil {
			drain(resp)
			if resp.StatusCode == http.StatusOK {
				return proc
			}
		}
		if time.Now().After(deadline) {
			require.FailNowf(t, "timed out waiting for /health", "%s", proc.logs())
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestBookingWizardEndToEnd(t *testing.T) {
	proc := startServer(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Timeout: 2 * time.Second, Jar: jar}

	resp, err := client.Get(proc.base + "/booking")
	require.NoError(t, err)
	body := readBody(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	require.Contains(t, body, "booking-wizard")

	for _, step := range []struct {
		path string
		form url.Values
	}{
		{"/api/v1/booking/field", url.Values{"field": {"fullName"}, "value": {"Maria Silva"}}},
		{"/api/v1/booking/next", nil},
		{"/api/v1/booking/next", nil},
		{"/api/v1/booking/day", url.Values{"day": {"11"}}},
		{"/api/v1/booking/time", url.Values{"time": {"10:30"}}},
		{"/api/v1/booking/next", nil},
	} {
		resp := postHTMX(t, client, proc.base+step.path, step.form)
		drain(resp)
		require.Equal(t, http.StatusOK, resp.StatusCode, "POST %s\n%s", step.path, proc.logs())
	}

	resp = postHTMX(t, client, proc.base+"/api/v1/booking/submit", nil)
	drain(resp)
	require.NotEmpty(t, resp.Header.Get("HX-Redirect"), "submit did not hand over to payment, status %d", resp.StatusCode)

	resp, err = client.Get(proc.base + "/metrics")
	require.NoError(t, err)
	assert.Contains(t, readBody(resp), `vistos_wizard_submissions_total{result="submitted"} 1`)

	// The draft survives in SQLite with its submitted flag.
	store, err := db.New(proc.dbPath)
	require.NoError(t, err)
	defer store.Close()
	var submitted int
	require.NoError(t, store.QueryRow(`SELECT COUNT(*) FROM booking_drafts WHERE submitted_at IS NOT NULL`).Scan(&submitted))
	assert.Equal(t, 1, submitted)

	assert.False(t, proc.exited(), "server exited during the walk\n%s", proc.logs())
}

func postHTMX(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	resp, err := client.Do(req)
	require.NoError(t, err, "POST %s", target)
	return resp
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			require.FailNow(t, "go.mod not found above test directory")
		}
		dir = parent
	}
}
