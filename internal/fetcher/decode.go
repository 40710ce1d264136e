package fetcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/jpalmerr/peercheck/internal/results"
)

// errNotObject is returned when a 200 response body is valid JSON but not an object.
var errNotObject = errors.New("unexpected response: expected a JSON object")

// ToResult maps a [Response] onto a results.PeerResult.
//
//   - transport error: the error description
//   - status other than 200: "HTTP <code>"
//   - otherwise: the decoded body, see [Decode]
func ToResult(resp Response) results.PeerResult {
	if resp.Error != nil {
		return results.ErrorResult(resp.Error.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return results.ErrorResult(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	result, err := Decode(resp.Body)
	if err != nil {
		return results.ErrorResult(err.Error())
	}
	return result
}

// Decode parses a dashboard peer document.
//
// reward and score may be JSON numbers or numeric strings; anything else,
// including a missing field, decodes as 0. Fractions are truncated. A
// non-empty "error" field in the document marks the result as failed.
func Decode(body []byte) (results.PeerResult, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return results.PeerResult{}, fmt.Errorf("invalid JSON response: %w", err)
	}
	if err := dec.Decode(new(interface{})); !errors.Is(err, io.EOF) {
		return results.PeerResult{}, errors.New("invalid JSON response: trailing data after JSON value")
	}

	doc, ok := raw.(map[string]interface{})
	if !ok {
		return results.PeerResult{}, errNotObject
	}

	if msg := errorField(doc["error"]); msg != "" {
		return results.ErrorResult(msg), nil
	}

	return results.PeerResult{
		PeerName: toString(doc["peerName"]),
		Reward:   toInt(doc["reward"]),
		Score:    toInt(doc["score"]),
		Online:   toBool(doc["online"]),
	}, nil
}

// errorField returns the upstream error message. Only a non-empty string or
// true counts; numbers, objects, arrays, false and null are ignored.
func errorField(v interface{}) string {
	switch e := v.(type) {
	case string:
		return e
	case bool:
		if e {
			return "error"
		}
	}
	return ""
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// toInt coerces a JSON value to an integer, defaulting to 0.
func toInt(v interface{}) int64 {
	switch n := v.(type) {
	case json.Number:
		return numberToInt(string(n))
	case string:
		return numberToInt(strings.TrimSpace(n))
	default:
		return 0
	}
}

func numberToInt(s string) int64 {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

func toBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}
