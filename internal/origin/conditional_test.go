package origin

import (
	"net/http"
	"testing"
	"time"
)

// fakeRequest implements Request for handler-level tests. Header lookup is
// case-insensitive, mirroring the contract real hosts must provide.
type fakeRequest struct {
	method  string
	path    string
	headers map[string]string
}

func (r fakeRequest) Method() string {
	return r.method
}

func (r fakeRequest) Path() string {
	return r.path
}

func (r fakeRequest) Header(name string) string {
	for key, value := range r.headers {
		if http.CanonicalHeaderKey(key) == http.CanonicalHeaderKey(name) {
			return value
		}
	}
	return ""
}

func TestNotModifiedMatchingETag(t *testing.T) {
	req := fakeRequest{headers: map[string]string{"If-None-Match": `"12345"`}}
	if !notModified(req, `"12345"`, time.Now()) {
		t.Fatalf("exact etag match should be not-modified")
	}
}

func TestNotModifiedWeakETag(t *testing.T) {
	req := fakeRequest{headers: map[string]string{"If-None-Match": `W/"12345"`}}
	if !notModified(req, `"12345"`, time.Now()) {
		t.Fatalf("weak validator should match after stripping W/")
	}
}

func TestNotModifiedMismatchedETag(t *testing.T) {
	req := fakeRequest{headers: map[string]string{"If-None-Match": `"99999"`}}
	if notModified(req, `"12345"`, time.Now()) {
		t.Fatalf("different etag must be modified")
	}
}

func TestIfNoneMatchWinsOverIfModifiedSince(t *testing.T) {
	mod := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)
	req := fakeRequest{headers: map[string]string{
		"If-None-Match":     `"wrong"`,
		"If-Modified-Since": mod.Add(time.Hour).Format(http.TimeFormat),
	}}
	// INM 不命中时不回看 IMS，即便 IMS 本可判定未修改。
	if notModified(req, `"12345"`, mod) {
		t.Fatalf("if-modified-since must not be consulted when if-none-match is present")
	}
}

func TestNotModifiedByDate(t *testing.T) {
	mod := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)
	req := fakeRequest{headers: map[string]string{
		"If-Modified-Since": mod.Add(time.Hour).Format(http.TimeFormat),
	}}
	if !notModified(req, `"12345"`, mod) {
		t.Fatalf("supplied time after modification should be not-modified")
	}
}

func TestModifiedWhenDateNotAfter(t *testing.T) {
	mod := time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)
	req := fakeRequest{headers: map[string]string{
		"If-Modified-Since": mod.Format(http.TimeFormat),
	}}
	if notModified(req, `"12345"`, mod) {
		t.Fatalf("equal time is not strictly after, must be modified")
	}
}

func TestUnparsableIfModifiedSince(t *testing.T) {
	req := fakeRequest{headers: map[string]string{"If-Modified-Since": "not a date"}}
	if notModified(req, `"12345"`, time.Unix(0, 0)) {
		t.Fatalf("unparsable date must be treated as modified")
	}
}

func TestNoConditionalHeaders(t *testing.T) {
	req := fakeRequest{headers: map[string]string{}}
	if notModified(req, `"12345"`, time.Now()) {
		t.Fatalf("no validators means modified")
	}
}
