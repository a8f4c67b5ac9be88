package tryfi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tryfi/model"
	"github.com/s0up4200/tryfi/query"
	"github.com/s0up4200/tryfi/session"
)

var petArgPattern = regexp.MustCompile(`pet \(id: "([^"]*)"\)`)

// callName identifies a document by operation and pet id, e.g. PetLocation:p1
func callName(document string) string {
	fields := strings.Fields(document)
	if len(fields) < 2 {
		return document
	}
	name := fields[1]
	if m := petArgPattern.FindStringSubmatch(document); m != nil {
		name += ":" + m[1]
	}
	return name
}

// mockSession is a mock implementation of the Session interface
type mockSession struct {
	loginErr  error
	userID    string
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (m *mockSession) Login(ctx context.Context, username, password string) error {
	m.calls = append(m.calls, "Login")
	return m.loginErr
}

func (m *mockSession) ApplyDefaultHeaders() error {
	m.calls = append(m.calls, "ApplyDefaultHeaders")
	return nil
}

func (m *mockSession) UserID() string {
	return m.userID
}

func (m *mockSession) Query(ctx context.Context, document string, out any) error {
	name := callName(document)
	m.calls = append(m.calls, name)

	op, _, _ := strings.Cut(name, ":")
	if err, ok := m.errs[name]; ok {
		return err
	}
	if err, ok := m.errs[op]; ok {
		return err
	}

	data, ok := m.responses[name]
	if !ok {
		data, ok = m.responses[op]
	}
	if !ok {
		return errors.New("unexpected query " + name)
	}
	return json.Unmarshal([]byte(data), out)
}

func (m *mockSession) reset() {
	m.calls = nil
}

// recordingReporter captures reported errors
type recordingReporter struct {
	exceptions []error
}

func (r *recordingReporter) CaptureException(err error) { r.exceptions = append(r.exceptions, err) }

func (r *recordingReporter) CaptureMessage(string) {}

func (r *recordingReporter) Flush(time.Duration) bool { return true }

func accountResponses() map[string]string {
	return map[string]string{
		query.OpCurrentUser: `{"currentUser":{"id":"user-1","email":"owner@example.com","firstName":"Sam","lastName":"Doe"}}`,
		query.OpPetList: `{"currentUser":{"userHouseholds":[{"household":{"pets":[
			{"id":"p1","name":"Rex","device":{"id":"d1","info":{"batteryPercent":80,"isCharging":false}}},
			{"id":"p2","name":"Mia","device":"None"}]}}]}}`,
		query.OpBaseList: `{"currentUser":{"userHouseholds":[{"household":{"bases":[
			{"baseId":"b1","name":"Kitchen","online":true}]}}]}}`,
		query.OpPetLocation: `{"pet":{"ongoingActivity":{"__typename":"OngoingRest","areaName":"Home",
			"position":{"latitude":1,"longitude":2},"place":{"name":"Home","address":"1 Main St"}}}}`,
		query.OpPetActivity: `{"pet":{"dailyStat":{"totalSteps":1000,"stepGoal":5000},
			"weeklyStat":{"totalSteps":7000},"monthlyStat":{"totalSteps":30000}}}`,
		query.OpPetRest: `{"pet":{"dailyStat":{"restSummaries":[{"data":{"sleepAmounts":[{"type":"SLEEP","duration":3600}]}}]},
			"weeklyStat":{},"monthlyStat":{}}}`,
	}
}

func newMockSession() *mockSession {
	return &mockSession{
		userID:    "user-1",
		responses: accountResponses(),
		errs:      map[string]error{},
	}
}

func newTestClient(t *testing.T, sess *mockSession, opts ...Option) (*Client, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	opts = append([]Option{WithSession(sess)}, opts...)
	c, err := New(context.Background(), "owner@example.com", "secret", zerolog.New(&logs), opts...)
	require.NoError(t, err)
	return c, &logs
}

func TestNew(t *testing.T) {
	sess := newMockSession()
	c, logs := newTestClient(t, sess)

	assert.Equal(t, []string{
		"Login",
		"ApplyDefaultHeaders",
		query.OpCurrentUser,
		query.OpPetList,
		query.OpPetLocation + ":p1",
		query.OpPetActivity + ":p1",
		query.OpPetRest + ":p1",
		query.OpBaseList,
	}, sess.calls)

	require.NotNil(t, c.CurrentUser())
	assert.Equal(t, "user-1", c.CurrentUser().UserID)
	assert.Equal(t, "owner@example.com", c.Username())

	pets := c.Pets()
	require.Len(t, pets, 1)
	assert.Equal(t, "p1", pets[0].PetID)
	assert.True(t, pets[0].HasDevice())
	assert.True(t, pets[0].CurrentLocation.IsResting())
	assert.Equal(t, 1000, pets[0].ActivityStats.Daily.Steps)
	assert.Equal(t, time.Hour, pets[0].RestStats.Daily.Sleep)

	bases := c.Bases()
	require.Len(t, bases, 1)
	assert.Equal(t, "b1", bases[0].BaseID)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"pet_id":"p2"`)
	assert.Contains(t, c.String(), "Pets: 1 Bases: 1")
}

func TestNewFailures(t *testing.T) {
	t.Run("login failure stops everything", func(t *testing.T) {
		sess := newMockSession()
		sess.loginErr = &session.AuthenticationError{StatusCode: http.StatusOK, Message: "Invalid credentials"}

		c, err := New(context.Background(), "owner@example.com", "wrong", zerolog.Nop(), WithSession(sess))
		require.Error(t, err)
		assert.Nil(t, c)

		var authErr *session.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, "Invalid credentials", authErr.Message)
		assert.Equal(t, []string{"Login"}, sess.calls)
	})

	t.Run("stats failure aborts construction", func(t *testing.T) {
		boom := errors.New("boom")
		sess := newMockSession()
		sess.errs[query.OpPetActivity] = boom
		reporter := &recordingReporter{}

		c, err := New(context.Background(), "owner@example.com", "secret", zerolog.Nop(),
			WithSession(sess), WithReporter(reporter))
		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, reporter.exceptions, 1)
		assert.NotContains(t, sess.calls, query.OpPetRest+":p1")
		assert.NotContains(t, sess.calls, query.OpBaseList)
	})

	t.Run("invalid session options", func(t *testing.T) {
		_, err := New(context.Background(), "owner@example.com", "secret", zerolog.Nop(),
			WithSessionOptions(session.WithBaseURL("")))
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})
}

func TestLookups(t *testing.T) {
	c, logs := newTestClient(t, newMockSession())

	assert.NotNil(t, c.GetPet("p1"))
	assert.NotNil(t, c.GetBase("b1"))
	assert.NotContains(t, logs.String(), `"level":"error"`)

	assert.Nil(t, c.GetBase("X"))
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), `"base_id":"X"`)

	// skipped at initialization
	assert.Nil(t, c.GetPet("p2"))
	assert.Contains(t, logs.String(), `"pet_id":"p2","message":"Pet not found"`)
}

func TestUpdate(t *testing.T) {
	t.Run("bases before pets without device filter", func(t *testing.T) {
		sess := newMockSession()
		c, _ := newTestClient(t, sess)
		sess.reset()

		require.NoError(t, c.Update(context.Background()))
		assert.Equal(t, []string{
			query.OpBaseList,
			query.OpPetList,
			query.OpPetLocation + ":p1",
			query.OpPetActivity + ":p1",
			query.OpPetRest + ":p1",
			query.OpPetLocation + ":p2",
			query.OpPetActivity + ":p2",
			query.OpPetRest + ":p2",
		}, sess.calls)

		pets := c.Pets()
		require.Len(t, pets, 2)
		assert.False(t, pets[1].HasDevice())
	})

	t.Run("strict refresh skips pets without device", func(t *testing.T) {
		sess := newMockSession()
		c, _ := newTestClient(t, sess, WithStrictRefresh(true))

		require.NoError(t, c.UpdatePets(context.Background()))
		require.Len(t, c.Pets(), 1)
		assert.Equal(t, "p1", c.Pets()[0].PetID)
	})

	t.Run("failed refresh keeps previous pets", func(t *testing.T) {
		sess := newMockSession()
		reporter := &recordingReporter{}
		c, _ := newTestClient(t, sess, WithReporter(reporter))
		before := c.Pets()

		boom := errors.New("boom")
		sess.errs[query.OpPetRest+":p2"] = boom

		err := c.UpdatePets(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to update pets")
		assert.Equal(t, before, c.Pets())
		assert.Same(t, before[0], c.GetPet("p1"))
		assert.Len(t, reporter.exceptions, 1)
	})

	t.Run("failed base refresh stops update", func(t *testing.T) {
		sess := newMockSession()
		c, _ := newTestClient(t, sess)
		sess.reset()

		sess.errs[query.OpBaseList] = &session.APIError{StatusCode: http.StatusInternalServerError, Message: "down"}

		err := c.Update(context.Background())
		var apiErr *session.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, []string{query.OpBaseList}, sess.calls)
		assert.Len(t, c.Bases(), 1)
	})
}

func TestUpdatePetObject(t *testing.T) {
	sess := newMockSession()
	c, _ := newTestClient(t, sess)
	require.NoError(t, c.UpdatePets(context.Background()))
	require.Len(t, c.Pets(), 2)

	renamed := &model.Pet{PetID: "p1", Name: "Rexy"}
	assert.True(t, c.UpdatePetObject(renamed))

	pets := c.Pets()
	require.Len(t, pets, 2)
	assert.Same(t, renamed, pets[0])
	assert.Equal(t, "p2", pets[1].PetID)

	assert.False(t, c.UpdatePetObject(&model.Pet{PetID: "unknown"}))
	assert.False(t, c.UpdatePetObject(nil))
	assert.Equal(t, pets, c.Pets())
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, _ := newTestClient(t, newMockSession())

	pets := c.Pets()
	pets[0] = nil
	assert.NotNil(t, c.Pets()[0])

	bases := c.Bases()
	bases[0] = nil
	assert.NotNil(t, c.Bases()[0])
}

func TestNewWithDeviceIDString(t *testing.T) {
	sess := newMockSession()
	sess.responses[query.OpPetList] = `{"currentUser":{"userHouseholds":[{"household":{"pets":[
		{"id":"p1","name":"Rex","device":"d1"},
		{"id":"p2","name":"Mia","device":"None"}]}}]}}`

	c, _ := newTestClient(t, sess)

	pets := c.Pets()
	require.Len(t, pets, 1)
	assert.Equal(t, "p1", pets[0].PetID)
	require.True(t, pets[0].HasDevice())
	assert.Equal(t, "d1", pets[0].Device.DeviceID)
	assert.Nil(t, c.GetPet("p2"))
}

func TestString(t *testing.T) {
	c, _ := newTestClient(t, newMockSession())

	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "TryFi Instance - Username: owner@example.com Pets: 1 Bases: 1", lines[0])
	assert.Equal(t, c.CurrentUser().String(), lines[1])
	assert.Equal(t, c.Pets()[0].String(), lines[2])
	assert.Equal(t, c.Bases()[0].String(), lines[3])
}

func TestNewOverHTTP(t *testing.T) {
	responses := accountResponses()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "connect.sid", Value: "abc", Path: "/"})
		w.Write([]byte(`{"userId":"user-1","sessionId":"session-1"}`))
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("connect.sid")
		assert.NoError(t, err)

		op, _, _ := strings.Cut(callName(r.URL.Query().Get("query")), ":")
		data, ok := responses[op]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"data":` + data + `}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := New(context.Background(), "owner@example.com", "secret", zerolog.Nop(),
		WithSessionOptions(session.WithBaseURL(server.URL)))
	require.NoError(t, err)
	assert.Len(t, c.Pets(), 1)
	assert.Len(t, c.Bases(), 1)
	assert.Equal(t, "Sam Doe", c.CurrentUser().FullName())
}
