package wallet

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/pkg/httpclient"
)

const testBaseURL = "http://node.test:58080"

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

// mockTransport answers every call with the same canned response or error and
// records the requests it saw.
type mockTransport struct {
	mu     sync.Mutex
	status int
	body   string
	err    error
	calls  []httpclient.RequestSpec
}

func (m *mockTransport) Send(_ context.Context, spec httpclient.RequestSpec) (httpclient.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, spec)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return mockResponse{body: []byte(m.body), statusCode: m.status}, nil
}

func (m *mockTransport) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type recordingSink struct {
	events []domain.SubmissionEvent
	err    error
}

func (r *recordingSink) Name() string { return "recording" }
func (r *recordingSink) Handle(_ context.Context, evt domain.SubmissionEvent) error {
	r.events = append(r.events, evt)
	return r.err
}

func newTestClient(t *testing.T, transport httpclient.Client, sinks ...EventSink) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: testBaseURL, SenderID: "id0", FallbackBalance: 55}, transport, nil, sinks...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func transportFailure() error {
	return &httpclient.TransportError{Method: http.MethodGet, URL: testBaseURL, Err: errors.New("connection refused")}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "", SenderID: "id0"}, &mockTransport{}, nil); err == nil {
		t.Fatalf("expected error for empty base url")
	}
	if _, err := New(Config{BaseURL: testBaseURL}, &mockTransport{}, nil); err == nil {
		t.Fatalf("expected error for empty sender id")
	}
	if _, err := New(Config{BaseURL: testBaseURL, SenderID: "id0"}, nil, nil); err == nil {
		t.Fatalf("expected error for nil transport")
	}
}

func TestFetchBalanceSuccess(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK, body: "120\n"}
	c := newTestClient(t, transport)

	res := c.FetchBalance(context.Background())
	if res.Outcome != OutcomeSuccess || res.Err != nil {
		t.Fatalf("expected success, got %v (%v)", res.Outcome, res.Err)
	}
	if res.Balance != 120 {
		t.Fatalf("balance = %v", res.Balance)
	}
	if res.Degraded() {
		t.Fatalf("successful balance must not be degraded")
	}
	if got := transport.calls[0]; got.Method != http.MethodGet || got.URL != testBaseURL+"/balance" {
		t.Fatalf("unexpected request %#v", got)
	}
}

func TestFetchBalanceFallsBack(t *testing.T) {
	cases := []struct {
		name      string
		transport *mockTransport
		outcome   Outcome
		status    int
	}{
		{name: "server error", transport: &mockTransport{status: http.StatusInternalServerError}, outcome: OutcomeHTTPError, status: 500},
		{name: "not found", transport: &mockTransport{status: http.StatusNotFound, body: "404"}, outcome: OutcomeHTTPError, status: 404},
		{name: "created is not ok", transport: &mockTransport{status: http.StatusCreated, body: "10"}, outcome: OutcomeHTTPError, status: 201},
		{name: "transport", transport: &mockTransport{err: transportFailure()}, outcome: OutcomeTransportFailure},
		{name: "non numeric", transport: &mockTransport{status: http.StatusOK, body: "lots"}, outcome: OutcomeDataFormatError, status: 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newTestClient(t, tc.transport).FetchBalance(context.Background())
			if res.Balance != 55 {
				t.Fatalf("expected fallback 55, got %v", res.Balance)
			}
			if res.Outcome != tc.outcome {
				t.Fatalf("outcome = %v, want %v", res.Outcome, tc.outcome)
			}
			if res.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", res.StatusCode, tc.status)
			}
			if !res.Degraded() || res.Err == nil {
				t.Fatalf("expected degraded result with error")
			}
		})
	}
}

func TestFetchBalanceUsesConfiguredFallback(t *testing.T) {
	c, err := New(Config{BaseURL: testBaseURL, SenderID: "id0", FallbackBalance: 0}, &mockTransport{status: http.StatusBadGateway}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if res := c.FetchBalance(context.Background()); res.Balance != 0 || !res.Degraded() {
		t.Fatalf("expected fallback 0, got %+v", res)
	}
}

func TestFetchHistoryPreservesOrder(t *testing.T) {
	transport := &mockTransport{
		status: http.StatusOK,
		body:   `{"transactionList":[{"fromTo":"A","node":"n1","amount":5}, {"fromTo":"B","node":"n2","amount":3}]}`,
	}
	res := newTestClient(t, transport).FetchHistory(context.Background())
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %v (%v)", res.Outcome, res.Err)
	}
	want := domain.TransactionHistory{
		{Index: 0, FromTo: "A", Node: "n1", Amount: 5},
		{Index: 1, FromTo: "B", Node: "n2", Amount: 3},
	}
	if len(res.History) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(res.History))
	}
	for i := range want {
		if res.History[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, res.History[i], want[i])
		}
	}
	if got := transport.calls[0]; got.Method != http.MethodGet || got.URL != testBaseURL+"/history" {
		t.Fatalf("unexpected request %#v", got)
	}
}

func TestFetchHistoryEmptyList(t *testing.T) {
	res := newTestClient(t, &mockTransport{status: http.StatusOK, body: `{"transactionList":[]}`}).FetchHistory(context.Background())
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %v", res.Outcome)
	}
	if res.History == nil || len(res.History) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", res.History)
	}
}

func TestFetchHistoryDataFormatErrors(t *testing.T) {
	bodies := map[string]string{
		"malformed":        `{"transactionList": ]}`,
		"missing list":     `{"transactions":[]}`,
		"null list":        `{"transactionList":null}`,
		"string amount":    `{"transactionList":[{"fromTo":"A","node":"n1","amount":"5"}]}`,
		"not json":         `Balance hit`,
		"array at the top": `[]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			res := newTestClient(t, &mockTransport{status: http.StatusOK, body: body}).FetchHistory(context.Background())
			if res.Outcome != OutcomeDataFormatError {
				t.Fatalf("outcome = %v, want DataFormatError", res.Outcome)
			}
			var formatErr *DataFormatError
			if !errors.As(res.Err, &formatErr) {
				t.Fatalf("expected *DataFormatError, got %T", res.Err)
			}
			if len(res.History) != 0 {
				t.Fatalf("expected no records on failure")
			}
		})
	}
}

func TestFetchHistoryHTTPAndTransportFailures(t *testing.T) {
	res := newTestClient(t, &mockTransport{status: http.StatusServiceUnavailable}).FetchHistory(context.Background())
	var httpErr *HTTPError
	if res.Outcome != OutcomeHTTPError || !errors.As(res.Err, &httpErr) || httpErr.Code != 503 {
		t.Fatalf("expected HTTPError(503), got %v %v", res.Outcome, res.Err)
	}

	res = newTestClient(t, &mockTransport{err: transportFailure()}).FetchHistory(context.Background())
	if res.Outcome != OutcomeTransportFailure {
		t.Fatalf("expected transport failure, got %v", res.Outcome)
	}
}

func TestSubmitTransactionValidationSkipsTransport(t *testing.T) {
	for _, in := range [][2]string{{"", "10"}, {"bob", ""}, {"", ""}} {
		transport := &mockTransport{status: http.StatusOK}
		sink := &recordingSink{}
		res := newTestClient(t, transport, sink).SubmitTransaction(context.Background(), in[0], in[1])

		if res.Outcome != OutcomeValidationError {
			t.Fatalf("SubmitTransaction(%q, %q) outcome = %v", in[0], in[1], res.Outcome)
		}
		if !errors.Is(res.Err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", res.Err)
		}
		if transport.callCount() != 0 {
			t.Fatalf("transport must not be called, got %d calls", transport.callCount())
		}
		if len(sink.events) != 0 {
			t.Fatalf("validation failures must not emit events")
		}
	}
}

func TestSubmitTransactionValidationNamesFields(t *testing.T) {
	res := newTestClient(t, &mockTransport{}).SubmitTransaction(context.Background(), "", "")
	var vErr *ValidationError
	if !errors.As(res.Err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", res.Err)
	}
	if _, ok := vErr.Fields["receiver"]; !ok {
		t.Fatalf("receiver not reported: %v", vErr.Fields)
	}
	if _, ok := vErr.Fields["amount"]; !ok {
		t.Fatalf("amount not reported: %v", vErr.Fields)
	}
}

func TestSubmitTransactionSuccess(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK}
	sink := &recordingSink{}
	ctx := ContextWithTraceID(context.Background(), "trace-1")

	res := newTestClient(t, transport, sink).SubmitTransaction(ctx, "bob", "10")
	if res.Outcome != OutcomeSuccess || res.Err != nil {
		t.Fatalf("expected success, got %v (%v)", res.Outcome, res.Err)
	}
	if transport.callCount() != 1 {
		t.Fatalf("expected one call, got %d", transport.callCount())
	}
	if got := transport.calls[0]; got.Method != http.MethodPost || got.URL != testBaseURL+"/transaction/id0/bob/10" {
		t.Fatalf("unexpected request %#v", got)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	evt := sink.events[0]
	if evt.Outcome != "success" || evt.TraceID != "trace-1" || evt.Receiver != "bob" || evt.StatusCode != 200 {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestSubmitTransactionServerErrorIsNotSuccess(t *testing.T) {
	sink := &recordingSink{}
	res := newTestClient(t, &mockTransport{status: http.StatusInternalServerError}, sink).SubmitTransaction(context.Background(), "bob", "10")

	if res.Outcome == OutcomeSuccess {
		t.Fatalf("status 500 must not be reported as success")
	}
	var httpErr *HTTPError
	if res.Outcome != OutcomeHTTPError || !errors.As(res.Err, &httpErr) || httpErr.Code != 500 {
		t.Fatalf("expected HTTPError(500), got %v %v", res.Outcome, res.Err)
	}
	if len(sink.events) != 1 || sink.events[0].Outcome != "http_error" {
		t.Fatalf("expected http_error event, got %+v", sink.events)
	}
}

func TestSubmitTransactionTransportFailure(t *testing.T) {
	res := newTestClient(t, &mockTransport{err: transportFailure()}).SubmitTransaction(context.Background(), "bob", "10")
	if res.Outcome != OutcomeTransportFailure {
		t.Fatalf("expected transport failure, got %v", res.Outcome)
	}
	if res.StatusCode != 0 {
		t.Fatalf("transport failure must not carry a status code, got %d", res.StatusCode)
	}
}

func TestSubmitTransactionEscapesPathSegments(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK}
	newTestClient(t, transport).SubmitTransaction(context.Background(), "id 1/x", "10")
	if got := transport.calls[0].URL; got != testBaseURL+"/transaction/id0/id%201%2Fx/10" {
		t.Fatalf("url = %q", got)
	}
}

func TestSubmitTransactionSinkFailureKeepsResult(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	res := newTestClient(t, &mockTransport{status: http.StatusOK}, sink).SubmitTransaction(context.Background(), "bob", "10")
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("sink failure changed outcome to %v", res.Outcome)
	}
}

func TestFetchIsIdempotent(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK, body: `{"transactionList":[{"fromTo":"to","node":"id2","amount":7}]}`}
	c := newTestClient(t, transport)

	first := c.FetchHistory(context.Background())
	second := c.FetchHistory(context.Background())
	if len(first.History) != 1 || len(second.History) != 1 || first.History[0] != second.History[0] {
		t.Fatalf("history differs between calls: %+v vs %+v", first, second)
	}

	balanceTransport := &mockTransport{status: http.StatusOK, body: "42"}
	bc := newTestClient(t, balanceTransport)
	b1, b2 := bc.FetchBalance(context.Background()), bc.FetchBalance(context.Background())
	if b1 != b2 {
		t.Fatalf("balance differs between calls: %+v vs %+v", b1, b2)
	}
}

func TestClassify(t *testing.T) {
	cases := map[Outcome]error{
		OutcomeSuccess:          nil,
		OutcomeValidationError:  &ValidationError{},
		OutcomeHTTPError:        &HTTPError{Code: 418},
		OutcomeDataFormatError:  &DataFormatError{Payload: "history", Err: errors.New("x")},
		OutcomeTransportFailure: transportFailure(),
	}
	for want, err := range cases {
		if got := Classify(err); got != want {
			t.Fatalf("Classify(%v) = %v, want %v", err, got, want)
		}
	}
}
