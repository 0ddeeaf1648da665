package reporting

import (
	"net/http"
	"os"

	"github.com/rollbar/rollbar-go"
)

// Reporter forwards unexpected errors to an error tracker
type Reporter interface {
	Report(r *http.Request, err error, extras map[string]interface{})
	Close()
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) Report(*http.Request, error, map[string]interface{}) {}
func (NopReporter) Close()                                              {}

// RollbarReporter Reporter backed by rollbar
type RollbarReporter struct{}

// NewReporter returns a RollbarReporter when token is set, NopReporter otherwise
func NewReporter(token, env, version string) Reporter {
	if token == "" {
		return NopReporter{}
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetCodeVersion(version)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	return RollbarReporter{}
}

// Report implement Reporter
func (RollbarReporter) Report(r *http.Request, err error, extras map[string]interface{}) {
	rollbar.RequestErrorWithExtras(rollbar.ERR, r, err, extras)
}

// Close flush pending items
func (RollbarReporter) Close() {
	rollbar.Wait()
}
