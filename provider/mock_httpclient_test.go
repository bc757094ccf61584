package provider

import (
	"net/http"
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockHTTPClient is a hand-maintained stand-in for the code mockgen would
// generate from the httpClient interface (mockgen has no network source to
// run against here, but the generated shape is mechanical).
type MockHTTPClient struct {
	ctrl     *gomock.Controller
	recorder *MockHTTPClientRecorder
}

type MockHTTPClientRecorder struct {
	mock *MockHTTPClient
}

func NewMockHTTPClient(ctrl *gomock.Controller) *MockHTTPClient {
	m := &MockHTTPClient{ctrl: ctrl}
	m.recorder = &MockHTTPClientRecorder{m}
	return m
}

func (m *MockHTTPClient) EXPECT() *MockHTTPClientRecorder {
	return m.recorder
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Do", req)
	resp, _ := ret[0].(*http.Response)
	err, _ := ret[1].(error)
	return resp, err
}

func (r *MockHTTPClientRecorder) Do(req interface{}) *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "Do", reflect.TypeOf((*MockHTTPClient)(nil).Do), req)
}
