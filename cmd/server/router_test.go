package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskBody struct {
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
	SelfLink    string          `json:"selfLink"`
	TTL         int64           `json:"ttl"`
}

type checkBody struct {
	CheckResult  bool   `json:"checkResult"`
	NextTaskLink string `json:"nextTaskLink"`
}

func submit(t *testing.T, ta *testApp, id, answer string) checkBody {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"answer": answer})
	require.NoError(t, err)

	w := ta.do(t, http.MethodPost, "/"+testPrefix+"/tasks/"+id, string(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body checkBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRouter_FullChain(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	require.Equal(t, http.StatusFound, w.Code)
	id := taskIDFromLink(t, w.Header().Get("Location"))
	assert.Regexp(t, `^[0-9a-f]{8}$`, id)

	wantNames := []string{"simple_task", "sector_area", "fibonacci", "last_task"}
	for i, wantName := range wantNames {
		assert.Equal(t, wantName, ta.nameOf(t, id), "step %d", i)

		w := ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/"+id, "")
		require.Equal(t, http.StatusOK, w.Code)

		var task taskBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
		assert.NotEmpty(t, task.Description)
		assert.Equal(t, "https://"+testHost+"/"+testPrefix+"/tasks/"+id, task.SelfLink)
		assert.Equal(t, int64(30), task.TTL)
		assert.NotContains(t, w.Body.String(), `"answer"`)

		wrong := submit(t, ta, id, ta.answerOf(t, id)+"x")
		assert.False(t, wrong.CheckResult)
		assert.Empty(t, wrong.NextTaskLink)

		right := submit(t, ta, id, ta.answerOf(t, id))
		require.True(t, right.CheckResult)

		if i == len(wantNames)-1 {
			assert.Equal(t, testFinalLink, right.NextTaskLink)
			break
		}
		id = taskIDFromLink(t, right.NextTaskLink)
	}
}

func TestRouter_SumTaskParameters(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	id := taskIDFromLink(t, w.Header().Get("Location"))

	w = ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	var task taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, "What is the sum of a and b?", task.Description)

	var params map[string]int64
	require.NoError(t, json.Unmarshal(task.Parameters, &params))
	require.Contains(t, params, "a")
	require.Contains(t, params, "b")
	assert.Equal(t, ta.answerOf(t, id), jsonNumber(params["a"]+params["b"]))
	assert.Less(t, strings.Index(string(task.Parameters), `"a"`), strings.Index(string(task.Parameters), `"b"`))
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestRouter_Expiry(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	id := taskIDFromLink(t, w.Header().Get("Location"))
	answer := ta.answerOf(t, id)

	ta.clock.Advance(10 * time.Second)
	w = ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var task taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, int64(20), task.TTL)

	ta.clock.Advance(20 * time.Second)

	w = ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w = ta.do(t, http.MethodPost, "/"+testPrefix+"/tasks/"+id, `{"answer":"`+answer+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRouter_SuccessorHasFreshTTL(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	id := taskIDFromLink(t, w.Header().Get("Location"))

	ta.clock.Advance(25 * time.Second)
	right := submit(t, ta, id, ta.answerOf(t, id))
	require.True(t, right.CheckResult)
	next := taskIDFromLink(t, right.NextTaskLink)

	ta.clock.Advance(10 * time.Second)

	// the first task is gone, its successor still has 20 seconds left
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/"+id, "").Code)

	w = ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/"+next, "")
	require.Equal(t, http.StatusOK, w.Code)
	var task taskBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, int64(20), task.TTL)
}

func TestRouter_UnknownTask(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/tasks/ffffffff", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ta.do(t, http.MethodPost, "/"+testPrefix+"/tasks/ffffffff", `{"answer":"1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BadRequests(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	id := taskIDFromLink(t, w.Header().Get("Location"))

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"answer"`},
		{"missing answer", `{}`},
		{"numeric answer", `{"answer": 3}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ta.do(t, http.MethodPost, "/"+testPrefix+"/tasks/"+id, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
			assert.Len(t, resp["trace_id"], 32)
		})
	}

	// the task is still answerable after rejected requests
	assert.True(t, submit(t, ta, id, ta.answerOf(t, id)).CheckResult)
}

func TestRouter_CORS(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	start := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	id := taskIDFromLink(t, start.Header().Get("Location"))

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		wantMethods string
	}{
		{"start", http.MethodGet, "/" + testPrefix + "/start", http.StatusFound, "OPTIONS,GET"},
		{"start preflight", http.MethodOptions, "/" + testPrefix + "/start", http.StatusNoContent, "OPTIONS,GET"},
		{"get task", http.MethodGet, "/" + testPrefix + "/tasks/" + id, http.StatusOK, "OPTIONS,GET,POST"},
		{"task preflight", http.MethodOptions, "/" + testPrefix + "/tasks/" + id, http.StatusNoContent, "OPTIONS,GET,POST"},
		{"missing task", http.MethodGet, "/" + testPrefix + "/tasks/ffffffff", http.StatusNotFound, "OPTIONS,GET,POST"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ta.do(t, tc.method, tc.path, "")

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.wantMethods, w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "false", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Api-Key")
		})
	}
}

func TestRouter_Health(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_EmptyPrefix(t *testing.T) {
	cfg := testConfig(t)
	cfg.Quiz.PathPrefix = ""
	cfg.Quiz.LinkScheme = "http"
	ta := newTestApp(t, cfg)

	w := ta.do(t, http.MethodGet, "/start", "")
	require.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "http://"+testHost+"/tasks/"), location)

	id := strings.TrimPrefix(location, "http://"+testHost+"/tasks/")
	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodGet, "/tasks/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "").Code)
}

func TestRouter_AnswerNeverLogged(t *testing.T) {
	ta := newTestApp(t, testConfig(t))

	w := ta.do(t, http.MethodGet, "/"+testPrefix+"/start", "")
	id := taskIDFromLink(t, w.Header().Get("Location"))

	submit(t, ta, id, "quetzalcoatl")

	assert.NotContains(t, ta.logs.String(), "quetzalcoatl")
	assert.Contains(t, ta.logs.String(), "request completed")
}
