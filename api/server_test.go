// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/api"
	"github.com/warthog618/go-gpiocontrol/driver/fake"
	"github.com/warthog618/go-gpiocontrol/settings"
)

const (
	adminToken = "s3cret"
	userToken  = "viewer"
)

var records = []settings.Record{
	{Pin: 4, ActiveMode: "active_low", DefaultState: "default_on", Name: "light"},
	{Pin: 17, ActiveMode: "active_high", DefaultState: "default_off", Name: "fan"},
	{Pin: 0, ActiveMode: "active_high", Name: "bogus"},
}

type rig struct {
	srv   *api.Server
	ctrl  *gpiocontrol.Controller
	drv   *fake.Driver
	store *settings.Store
}

func newRig(t *testing.T, options ...api.Option) *rig {
	t.Helper()
	store, err := settings.Open(filepath.Join(t.TempDir(), "gpio.yaml"))
	require.Nil(t, err)
	require.Nil(t, store.Save(records))

	d := fake.New()
	c := gpiocontrol.New(d)
	require.Nil(t, c.Startup())
	cfgs, err := store.Configurations()
	require.Nil(t, err)
	require.Nil(t, c.ApplyAll(cfgs))
	store.OnSave(c.Reload)

	auth := api.NewStaticTokenAuth([]api.Token{
		{Token: adminToken, Name: "octo", Roles: []string{api.RoleAdmin}},
		{Token: userToken, Name: "guest", Roles: []string{"user"}},
	})
	return &rig{
		srv:   api.New(c, store, auth, options...),
		ctrl:  c,
		drv:   d,
		store: store,
	}
}

func (r *rig) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.srv.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Nil(t, json.NewDecoder(w.Body).Decode(v))
}

func TestGetStates(t *testing.T) {
	r := newRig(t)
	w := r.do(t, http.MethodGet, "/api/gpio", "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var states []string
	decodeBody(t, w, &states)
	assert.Equal(t, []string{"on", "off", ""}, states)
}

func TestCommands(t *testing.T) {
	r := newRig(t)
	patterns := []struct {
		name  string
		body  string
		code  int
		state string
	}{
		{"off", `{"command":"turnGpioOff","id":0}`, http.StatusOK, "off"},
		{"get off", `{"command":"getGpioState","id":0}`, http.StatusOK, "off"},
		{"on", `{"command":"turnGpioOn","id":1}`, http.StatusOK, "on"},
		{"get on", `{"command":"getGpioState","id":1}`, http.StatusOK, "on"},
		{"unresolved", `{"command":"turnGpioOn","id":2}`, http.StatusOK, ""},
		{"get unresolved", `{"command":"getGpioState","id":2}`, http.StatusOK, ""},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			w := r.do(t, http.MethodPost, "/api/gpio", p.body, adminToken)
			require.Equal(t, p.code, w.Code)
			var state string
			decodeBody(t, w, &state)
			assert.Equal(t, p.state, state)
		}
		t.Run(p.name, tf)
	}
	l, ok := r.drv.Level(4)
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.High, l)
	l, ok = r.drv.Level(17)
	assert.True(t, ok)
	assert.Equal(t, gpiocontrol.High, l)
}

func TestCommandErrors(t *testing.T) {
	r := newRig(t)
	patterns := []struct {
		name string
		body string
		code int
	}{
		{"unknown index", `{"command":"turnGpioOn","id":3}`, http.StatusNotFound},
		{"negative index", `{"command":"getGpioState","id":-1}`, http.StatusNotFound},
		{"unknown command", `{"command":"toggle","id":0}`, http.StatusBadRequest},
		{"missing id", `{"command":"turnGpioOn"}`, http.StatusBadRequest},
		{"malformed", `{"command":`, http.StatusBadRequest},
		{"unknown field", `{"command":"turnGpioOn","id":0,"pin":4}`, http.StatusBadRequest},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			w := r.do(t, http.MethodPost, "/api/gpio", p.body, adminToken)
			assert.Equal(t, p.code, w.Code)
			var e map[string]string
			decodeBody(t, w, &e)
			assert.NotEmpty(t, e["error"])
		}
		t.Run(p.name, tf)
	}
}

func TestCommandDriverFault(t *testing.T) {
	r := newRig(t)
	r.drv.Fail(fake.OpWrite, 4, errors.New("bus error"))
	w := r.do(t, http.MethodPost, "/api/gpio", `{"command":"turnGpioOff","id":0}`, adminToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	r.drv.Fail(fake.OpRead, 17, errors.New("bus error"))
	w = r.do(t, http.MethodGet, "/api/gpio", "", adminToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuth(t *testing.T) {
	r := newRig(t)
	patterns := []struct {
		name   string
		header string
		code   int
	}{
		{"none", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + adminToken, http.StatusUnauthorized},
		{"empty", "Bearer ", http.StatusUnauthorized},
		{"unknown", "Bearer nope", http.StatusUnauthorized},
		{"not admin", "Bearer " + userToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
		{"lower case scheme", "bearer " + adminToken, http.StatusOK},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/gpio", nil)
			if p.header != "" {
				req.Header.Set("Authorization", p.header)
			}
			w := httptest.NewRecorder()
			r.srv.ServeHTTP(w, req)
			assert.Equal(t, p.code, w.Code)
		}
		t.Run(p.name, tf)
	}
}

func TestUnauthorizedCommandNotExecuted(t *testing.T) {
	r := newRig(t)
	w := r.do(t, http.MethodPost, "/api/gpio", `{"command":"turnGpioOff","id":0}`, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	l, _ := r.drv.Level(4)
	assert.Equal(t, gpiocontrol.Low, l)
}

func TestGetSettings(t *testing.T) {
	r := newRig(t)
	w := r.do(t, http.MethodGet, "/api/settings", "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []settings.Record
	decodeBody(t, w, &recs)
	assert.Equal(t, records, recs)
}

func TestPostSettingsReloads(t *testing.T) {
	r := newRig(t)
	body := `[{"pin":22,"active_mode":"active_high","default_state":"default_on","name":"pump"}]`
	w := r.do(t, http.MethodPost, "/api/settings", body, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []int{22}, r.drv.Lines())
	states, err := r.ctrl.States()
	require.Nil(t, err)
	assert.Equal(t, []string{"on"}, states)

	reopened, err := settings.Open(r.store.Path())
	require.Nil(t, err)
	assert.Equal(t, r.store.Records(), reopened.Records())
}

func TestPostSettingsInvalid(t *testing.T) {
	r := newRig(t)
	body := `[{"pin":22,"active_mode":"sideways","name":"pump"}]`
	w := r.do(t, http.MethodPost, "/api/settings", body, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, records, r.store.Records())
	assert.Equal(t, []int{4, 17}, r.drv.Lines())
}

func TestMethodNotAllowed(t *testing.T) {
	r := newRig(t)
	w := r.do(t, http.MethodDelete, "/api/gpio", "", adminToken)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := newRig(t, api.WithRateLimit(60, 2))
	for range 2 {
		w := r.do(t, http.MethodGet, "/api/gpio", "", adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := r.do(t, http.MethodGet, "/api/gpio", "", adminToken)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// limits are per client
	req := httptest.NewRequest(http.MethodGet, "/api/gpio", nil)
	req.RemoteAddr = "198.51.100.7:4321"
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
